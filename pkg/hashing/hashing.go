package hashing

import (
	"context"
	"encoding/binary"
	"fmt"
)

// Table is the contract shared by the hashing table strategies. Elements are
// buffered with Insert and mapped to bins once Finalize is called, after
// which the table is read-only.
type Table interface {
	// Insert buffers one or more elements, in order.
	Insert(elements ...[]byte) error
	// Finalize allocates the bins and maps every buffered element.
	Finalize(ctx context.Context) error
	// CandidateAddresses returns the bin index of element under each
	// hash function.
	CandidateAddresses(element []byte) ([]uint64, error)
	// NumBins returns the size of the bin array, 0 before Finalize.
	NumBins() uint64
}

// Uint64Element encodes v as an 8-byte little-endian element.
func Uint64Element(v uint64) []byte {
	e := make([]byte, 8)
	binary.LittleEndian.PutUint64(e, v)
	return e
}

// Uint64Elements encodes every value of vs with Uint64Element.
func Uint64Elements(vs ...uint64) [][]byte {
	elements := make([][]byte, len(vs))
	for i, v := range vs {
		elements[i] = Uint64Element(v)
	}

	return elements
}

// CheckElement returns ErrElementLength if element is not n bytes long.
func CheckElement(element []byte, n int) error {
	if len(element) != n {
		return fmt.Errorf("got %d bytes, want %d: %w", len(element), n, ErrElementLength)
	}

	return nil
}
