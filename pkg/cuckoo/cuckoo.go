package cuckoo

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"github.com/optable/lutcuckoo/pkg/hashing"
	"github.com/optable/lutcuckoo/pkg/log"
	"github.com/optable/lutcuckoo/pkg/lut"
)

// StashHashIndex is the hash index reported for an item held in the stash.
const StashHashIndex = math.MaxUint8

var _ hashing.Table = (*Cuckoo)(nil)

// Cuckoo is a cuckoo hash table whose candidate bins are derived from a
// seeded bank of lookup tables. Elements are buffered by Insert and placed
// by Finalize, in insertion order. An element that cannot be placed within
// the eviction bound goes to the stash, so every distinct element ends up
// in exactly one bin or in the stash.
//
// After Finalize the table is read-only and its query methods are safe
// for concurrent use.
type Cuckoo struct {
	config    hashing.Config
	bank      *lut.Bank
	pending   [][]byte
	finalized bool

	// set by Finalize
	addresser *lut.Function
	// items has an additional nil value prepended, the "keeper" to
	// which bucketLookup is directed when a bin is empty
	items        [][]byte
	hashIndices  []byte
	bucketLookup []uint64
	stash        []uint64
	evictions    uint64
}

// New validates the configuration and generates the lookup table bank
// from the configured seed.
func New(opts ...hashing.Option) (*Cuckoo, error) {
	config, err := hashing.NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	bank, err := lut.Generate(config.Seed, config.NumHashFunctions, config.NumLUTs, config.LUTAddresses)
	if err != nil {
		return nil, err
	}

	return &Cuckoo{config: config, bank: bank}, nil
}

// Insert buffers elements for Finalize. Either every element of the batch
// is buffered or none is.
func (c *Cuckoo) Insert(elements ...[]byte) error {
	if c.finalized {
		return fmt.Errorf("cannot insert %d elements: %w", len(elements), hashing.ErrFinalized)
	}

	for _, e := range elements {
		if err := hashing.CheckElement(e, c.config.ElementByteLength); err != nil {
			return err
		}
	}

	for _, e := range elements {
		c.pending = append(c.pending, append([]byte(nil), e...))
	}

	return nil
}

// InsertUint64 buffers values encoded with hashing.Uint64Element.
func (c *Cuckoo) InsertUint64(values ...uint64) error {
	return c.Insert(hashing.Uint64Elements(values...)...)
}

// Finalize allocates the bins and maps every buffered element into them.
// Finalize is all-or-nothing: on error the table is left unchanged.
// The logger is taken from ctx, and a cancelled ctx aborts the mapping.
func (c *Cuckoo) Finalize(ctx context.Context) error {
	if c.finalized {
		return fmt.Errorf("cannot finalize twice: %w", hashing.ErrFinalized)
	}

	logger := log.GetLoggerFromContextWithName(ctx, "cuckoo")

	items := distinct(c.pending)
	n := len(items) - 1
	numBins, err := c.config.BinCount(n)
	if err != nil {
		return err
	}
	logger.V(1).Info("allocating bins", "elements", n, "duplicates", len(c.pending)-n, "bins", numBins)

	addresser, err := lut.NewFunction(c.bank, c.config.NumTablesInLUT, numBins)
	if err != nil {
		return err
	}

	candidates, err := candidateAddresses(ctx, addresser, items, c.config.Workers)
	if err != nil {
		return err
	}

	m := newMapping(numBins, items, candidates, c.config.NumHashFunctions, c.config.MaxEvictions)
	for idx := uint64(1); idx <= uint64(n); idx++ {
		m.insert(idx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.addresser = addresser
	c.items = items
	c.hashIndices = m.hashIndices
	c.bucketLookup = m.bucketLookup
	c.stash = m.stash
	c.evictions = m.evictions
	c.pending = nil
	c.finalized = true

	logger.V(1).Info("mapped elements", "load factor", c.LoadFactor(), "evictions", c.evictions, "stash size", len(c.stash))
	if expected := ExpectedStashSize(uint64(n)); len(c.stash) > int(expected) {
		logger.Info("stash exceeds the expected size, consider a larger epsilon", "stash size", len(c.stash), "expected", expected)
	}

	return nil
}

// Finalized reports whether Finalize completed.
func (c *Cuckoo) Finalized() bool {
	return c.finalized
}

// CandidateAddresses returns the bin of element under each hash function.
func (c *Cuckoo) CandidateAddresses(element []byte) ([]uint64, error) {
	if !c.finalized {
		return nil, hashing.ErrNotFinalized
	}
	if err := hashing.CheckElement(element, c.config.ElementByteLength); err != nil {
		return nil, err
	}

	return c.addresser.Addresses(element), nil
}

// Lookup returns the bin holding element and the index of the hash
// function that addressed it. An element in the stash is reported with
// StashHashIndex.
func (c *Cuckoo) Lookup(element []byte) (bIdx uint64, hIdx uint8, found bool) {
	addrs, err := c.CandidateAddresses(element)
	if err != nil {
		return 0, 0, false
	}

	for _, bIdx := range addrs {
		if idx := c.bucketLookup[bIdx]; idx != 0 && bytes.Equal(c.items[idx], element) {
			return bIdx, c.hashIndices[idx], true
		}
	}

	for _, idx := range c.stash {
		if bytes.Equal(c.items[idx], element) {
			return 0, StashHashIndex, true
		}
	}

	return 0, 0, false
}

// Exists returns true if element was inserted in the table.
func (c *Cuckoo) Exists(element []byte) bool {
	_, _, found := c.Lookup(element)
	return found
}

// Occupant returns the element in bin bIdx, false if the bin is empty,
// out of range or the table is not finalized.
func (c *Cuckoo) Occupant(bIdx uint64) ([]byte, bool) {
	if bIdx >= uint64(len(c.bucketLookup)) || c.isEmpty(bIdx) {
		return nil, false
	}

	return c.items[c.bucketLookup[bIdx]], true
}

// Bins returns the content of every bin, nil for an empty bin.
func (c *Cuckoo) Bins() [][]byte {
	bins := make([][]byte, len(c.bucketLookup))
	for bIdx, idx := range c.bucketLookup {
		bins[bIdx] = c.items[idx]
	}

	return bins
}

// Stash returns the stashed elements in the order they were stashed.
func (c *Cuckoo) Stash() [][]byte {
	stash := make([][]byte, len(c.stash))
	for i, idx := range c.stash {
		stash[i] = c.items[idx]
	}

	return stash
}

// StashSize returns the number of elements that could not be placed in
// a bin. A non empty stash points to a load factor that is too high.
func (c *Cuckoo) StashSize() int {
	return len(c.stash)
}

// Evictions returns the number of evictions performed by Finalize.
func (c *Cuckoo) Evictions() uint64 {
	return c.evictions
}

// LoadFactor returns the ratio of occupied bins to the number of bins.
func (c *Cuckoo) LoadFactor() (factor float64) {
	if len(c.bucketLookup) == 0 {
		return 0
	}

	occupation := 0
	for _, v := range c.bucketLookup {
		if v != 0 {
			occupation++
		}
	}

	return float64(occupation) / float64(len(c.bucketLookup))
}

// NumBins returns the number of bins, 0 before Finalize.
func (c *Cuckoo) NumBins() uint64 {
	return uint64(len(c.bucketLookup))
}

// Len returns the number of distinct elements held by the table.
func (c *Cuckoo) Len() int {
	if !c.finalized {
		return 0
	}

	return len(c.items) - 1
}

// Bank returns the lookup tables the addresses are derived from.
func (c *Cuckoo) Bank() *lut.Bank {
	return c.bank
}

// Config returns the configuration of the table.
func (c *Cuckoo) Config() hashing.Config {
	return c.config
}

// isEmpty returns true if bucket at bIdx does not contain the index
// of an element
func (c *Cuckoo) isEmpty(bIdx uint64) bool {
	return c.bucketLookup[bIdx] == 0
}

// distinct returns elements without repetitions, in first occurrence
// order, behind a nil keeper.
func distinct(elements [][]byte) [][]byte {
	seen := make(map[string]struct{}, len(elements))
	items := make([][]byte, 1, len(elements)+1)
	for _, e := range elements {
		if _, ok := seen[string(e)]; ok {
			continue
		}
		seen[string(e)] = struct{}{}
		items = append(items, e)
	}

	return items
}
