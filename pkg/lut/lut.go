// Package lut builds the pseudorandom lookup tables used to address bins,
// and the function combining them into one candidate bin per hash function.
//
// Evaluating a few table lookups and XORs is much cheaper inside a secure
// computation than a cryptographic hash, which is why the addresses of a
// cuckoo table are derived this way.
package lut

import (
	"fmt"

	"github.com/alecthomas/unsafeslice"
	"github.com/optable/lutcuckoo/internal/crypto"
	"github.com/optable/lutcuckoo/pkg/hashing"
)

// Generator is a deterministic source of 64-bit values.
type Generator interface {
	Uint64() uint64
}

// Bank holds numHash x numLUTs lookup tables of numAddresses pseudorandom
// entries each. Once filled, a Bank is never modified and can be shared.
type Bank struct {
	numHash      int
	numLUTs      int
	numAddresses int
	// entries[h][l] is the LUT l of hash function h
	entries [][][]uint64
}

// Allocate returns a zeroed bank of the given dimensions. No randomness
// is consumed, so the dimensions are validated before any generation.
func Allocate(numHash, numLUTs, numAddresses int) (*Bank, error) {
	if err := hashing.ValidateLUTs(numHash, numLUTs, numAddresses); err != nil {
		return nil, err
	}

	// one backing array for the whole bank
	backing := make([]uint64, numHash*numLUTs*numAddresses)
	entries := make([][][]uint64, numHash)
	for h := range entries {
		entries[h] = make([][]uint64, numLUTs)
		for l := range entries[h] {
			off := (h*numLUTs + l) * numAddresses
			entries[h][l] = backing[off : off+numAddresses : off+numAddresses]
		}
	}

	return &Bank{
		numHash:      numHash,
		numLUTs:      numLUTs,
		numAddresses: numAddresses,
		entries:      entries,
	}, nil
}

// Fill draws every entry from g, hash function by hash function,
// LUT by LUT.
func (b *Bank) Fill(g Generator) {
	for h := range b.entries {
		for l := range b.entries[h] {
			for a := range b.entries[h][l] {
				b.entries[h][l][a] = g.Uint64()
			}
		}
	}
}

// Generate allocates a bank and fills it from a stream seeded with seed.
// The same seed and dimensions always yield the same bank.
func Generate(seed uint64, numHash, numLUTs, numAddresses int) (*Bank, error) {
	b, err := Allocate(numHash, numLUTs, numAddresses)
	if err != nil {
		return nil, err
	}

	b.Fill(crypto.NewStream(seed))
	return b, nil
}

// Dimensions returns the number of hash functions, LUTs per hash function
// and entries per LUT.
func (b *Bank) Dimensions() (numHash, numLUTs, numAddresses int) {
	return b.numHash, b.numLUTs, b.numAddresses
}

// Entry returns entry a of LUT l of hash function h.
// Panics if an index is out of range.
func (b *Bank) Entry(h, l, a int) uint64 {
	return b.entries[h][l][a]
}

// Bytes returns LUT l of hash function h as bytes in native byte order.
// The returned slice aliases the bank and must not be modified.
func (b *Bank) Bytes(h, l int) ([]byte, error) {
	if h < 0 || h >= b.numHash || l < 0 || l >= b.numLUTs {
		return nil, fmt.Errorf("LUT (%d, %d) is out of range of a %dx%d bank", h, l, b.numHash, b.numLUTs)
	}

	return unsafeslice.ByteSliceFromUint64Slice(b.entries[h][l]), nil
}
