package hashing

import "fmt"

var (
	// ErrConfiguration reports an invalid table configuration: neither
	// epsilon nor a bin count, a negative epsilon or a zero LUT dimension.
	ErrConfiguration = fmt.Errorf("invalid hashing table configuration")
	// ErrFinalized is returned when a finalized table is modified.
	ErrFinalized = fmt.Errorf("hashing table is already finalized")
	// ErrNotFinalized is returned by queries that need the bin array.
	ErrNotFinalized = fmt.Errorf("hashing table is not finalized")
	// ErrElementLength is returned when an element does not have the
	// configured byte length.
	ErrElementLength = fmt.Errorf("element does not have the configured byte length")
)
