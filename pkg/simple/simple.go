// Package simple implements simple hashing: every element is stored in
// each of its candidate bins, so a bin may hold several elements. It is the
// counterpart of a cuckoo table in PSI protocols where one party maps its
// set with cuckoo hashing and the other with simple hashing, using the same
// seed so that both agree on the candidate bins.
package simple

import (
	"context"
	"fmt"

	"github.com/optable/lutcuckoo/pkg/hashing"
	"github.com/optable/lutcuckoo/pkg/log"
	"github.com/optable/lutcuckoo/pkg/lut"
)

var _ hashing.Table = (*Simple)(nil)

// Simple is a multi-map from bins to elements.
type Simple struct {
	config    hashing.Config
	bank      *lut.Bank
	pending   [][]byte
	finalized bool

	addresser *lut.Function
	bins      [][][]byte
	n         int
}

// New validates the configuration and generates the lookup tables.
// The same options as cuckoo.New yield the same candidate addresses.
func New(opts ...hashing.Option) (*Simple, error) {
	config, err := hashing.NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	bank, err := lut.Generate(config.Seed, config.NumHashFunctions, config.NumLUTs, config.LUTAddresses)
	if err != nil {
		return nil, err
	}

	return &Simple{config: config, bank: bank}, nil
}

// Insert buffers elements for Finalize.
func (s *Simple) Insert(elements ...[]byte) error {
	if s.finalized {
		return fmt.Errorf("cannot insert %d elements: %w", len(elements), hashing.ErrFinalized)
	}

	for _, e := range elements {
		if err := hashing.CheckElement(e, s.config.ElementByteLength); err != nil {
			return err
		}
	}

	for _, e := range elements {
		s.pending = append(s.pending, append([]byte(nil), e...))
	}

	return nil
}

// Finalize allocates the bins and appends every distinct element to each
// of its distinct candidate bins, in insertion order.
func (s *Simple) Finalize(ctx context.Context) error {
	if s.finalized {
		return fmt.Errorf("cannot finalize twice: %w", hashing.ErrFinalized)
	}

	logger := log.GetLoggerFromContextWithName(ctx, "simple")

	seen := make(map[string]struct{}, len(s.pending))
	var items [][]byte
	for _, e := range s.pending {
		if _, ok := seen[string(e)]; !ok {
			seen[string(e)] = struct{}{}
			items = append(items, e)
		}
	}

	numBins, err := s.config.BinCount(len(items))
	if err != nil {
		return err
	}

	addresser, err := lut.NewFunction(s.bank, s.config.NumTablesInLUT, numBins)
	if err != nil {
		return err
	}

	bins := make([][][]byte, numBins)
	addrs := make([]uint64, s.config.NumHashFunctions)
	for _, e := range items {
		addresser.AddressesTo(addrs, e)
		for h, bIdx := range addrs {
			if !repeated(addrs[:h], bIdx) {
				bins[bIdx] = append(bins[bIdx], e)
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.addresser = addresser
	s.bins = bins
	s.n = len(items)
	s.pending = nil
	s.finalized = true

	logger.V(1).Info("mapped elements", "elements", s.n, "bins", numBins, "max bin size", s.MaxBinSize())
	return nil
}

// CandidateAddresses returns the bin of element under each hash function.
func (s *Simple) CandidateAddresses(element []byte) ([]uint64, error) {
	if !s.finalized {
		return nil, hashing.ErrNotFinalized
	}
	if err := hashing.CheckElement(element, s.config.ElementByteLength); err != nil {
		return nil, err
	}

	return s.addresser.Addresses(element), nil
}

// Bin returns the elements mapped to bin bIdx, nil if out of range.
func (s *Simple) Bin(bIdx uint64) [][]byte {
	if bIdx >= uint64(len(s.bins)) {
		return nil
	}

	return s.bins[bIdx]
}

// MaxBinSize returns the number of elements in the fullest bin. Protocols
// pad every bin to this size.
func (s *Simple) MaxBinSize() int {
	max := 0
	for _, b := range s.bins {
		if len(b) > max {
			max = len(b)
		}
	}

	return max
}

// NumBins returns the number of bins, 0 before Finalize.
func (s *Simple) NumBins() uint64 {
	return uint64(len(s.bins))
}

// Len returns the number of distinct elements held by the table.
func (s *Simple) Len() int {
	return s.n
}

func repeated(addrs []uint64, bIdx uint64) bool {
	for _, a := range addrs {
		if a == bIdx {
			return true
		}
	}

	return false
}
