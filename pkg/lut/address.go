package lut

import (
	"fmt"

	"github.com/optable/lutcuckoo/pkg/hashing"
)

// Function maps an element to one bin index per hash function by XORing
// one entry of each LUT of that hash function. Each LUT entry is selected
// by the low-order byte of a window of the element. A Function is pure and
// safe for concurrent use.
type Function struct {
	bank        *Bank
	tablesInLUT uint64
	numBins     uint64
}

// NewFunction returns the address function over bank for numBins bins.
// tablesInLUT bounds the index derived from an element byte.
func NewFunction(bank *Bank, tablesInLUT int, numBins uint64) (*Function, error) {
	if bank == nil {
		return nil, fmt.Errorf("address function needs a LUT bank: %w", hashing.ErrConfiguration)
	}
	if tablesInLUT <= 0 {
		return nil, fmt.Errorf("number of tables in LUT must be positive, got %d: %w", tablesInLUT, hashing.ErrConfiguration)
	}
	if numBins == 0 {
		return nil, fmt.Errorf("address function needs at least one bin: %w", hashing.ErrConfiguration)
	}

	return &Function{bank: bank, tablesInLUT: uint64(tablesInLUT), numBins: numBins}, nil
}

// NumHashFunctions returns the number of addresses computed per element.
func (f *Function) NumHashFunctions() int {
	return f.bank.numHash
}

// NumBins returns the modulus of the addresses.
func (f *Function) NumBins() uint64 {
	return f.numBins
}

// Hash returns the raw 64-bit value of element under hash function h.
// element must not be empty.
func (f *Function) Hash(element []byte, h int) uint64 {
	luts := f.bank.entries[h]
	n, numLUTs := len(element), len(luts)
	numAddresses := uint64(f.bank.numAddresses)

	var acc uint64
	for l, lut := range luts {
		// windows overlap when there are more LUTs than bytes
		idx := uint64(element[l*n/numLUTs]) % f.tablesInLUT
		if idx >= numAddresses {
			idx %= numAddresses
		}
		acc ^= lut[idx]
	}

	return acc
}

// Address returns the bin index of element under hash function h.
func (f *Function) Address(element []byte, h int) uint64 {
	return f.Hash(element, h) % f.numBins
}

// Addresses returns the bin index of element under every hash function,
// in hash function order. Indices may repeat.
func (f *Function) Addresses(element []byte) []uint64 {
	addrs := make([]uint64, f.bank.numHash)
	f.AddressesTo(addrs, element)
	return addrs
}

// AddressesTo writes the bin indices of element into dst, which must hold
// one value per hash function.
func (f *Function) AddressesTo(dst []uint64, element []byte) {
	for h := range f.bank.entries {
		dst[h] = f.Address(element, h)
	}
}
