package cuckoo

import (
	"context"

	"github.com/optable/lutcuckoo/pkg/lut"
	"golang.org/x/sync/errgroup"
)

// mapping places items into bins. Items are referred to by their index in
// the items slice, 0 being the keeper that marks an empty bin.
type mapping struct {
	bucketLookup []uint64
	hashIndices  []byte
	stash        []uint64
	// candidates of item idx are candidates[idx*nHash : (idx+1)*nHash]
	candidates   []uint64
	nHash        int
	maxEvictions int
	evictions    uint64
}

func newMapping(numBins uint64, items [][]byte, candidates []uint64, nHash, maxEvictions int) *mapping {
	return &mapping{
		bucketLookup: make([]uint64, numBins),
		hashIndices:  make([]byte, len(items)),
		candidates:   candidates,
		nHash:        nHash,
		maxEvictions: maxEvictions,
	}
}

func (m *mapping) bucketIndices(idx uint64) []uint64 {
	return m.candidates[idx*uint64(m.nHash) : (idx+1)*uint64(m.nHash)]
}

// insert places item idx into its first free candidate bin, otherwise
// evicts the occupant of its first candidate bin and reinserts it.
func (m *mapping) insert(idx uint64) {
	bucketIndices := m.bucketIndices(idx)

	// add to free slots
	if m.tryAdd(idx, bucketIndices, false, 0) {
		return
	}

	// force insert by cuckoo (eviction)
	m.tryGreedyAdd(idx, 0, bucketIndices[0])
}

// tryAdd finds a free slot and inserts the item (at index, idx)
// if ignore is true, it will not insert into exceptBIdx
func (m *mapping) tryAdd(idx uint64, bucketIndices []uint64, ignore bool, exceptBIdx uint64) (added bool) {
	for hIdx, bIdx := range bucketIndices {
		if ignore && exceptBIdx == bIdx {
			continue
		}

		if m.bucketLookup[bIdx] == 0 {
			// this is a free slot
			m.bucketLookup[bIdx] = idx
			m.hashIndices[idx] = uint8(hIdx)
			return true
		}
	}
	return false
}

// tryGreedyAdd evicts the occupant of evictedBIdx, inserts the item there
// and reinserts the evicted item in one of its other candidate bins. When
// these are all occupied, the evicted item in turn evicts the occupant of
// its first candidate bin other than the one it just left. The homeless
// item goes to the stash once maxEvictions evictions were done or when it
// has no other candidate bin.
func (m *mapping) tryGreedyAdd(idx uint64, evictedHIdx int, evictedBIdx uint64) {
	for i := 0; i < m.maxEvictions; i++ {
		evictedIdx := m.bucketLookup[evictedBIdx]
		// insert the item in the evicted slot
		m.bucketLookup[evictedBIdx] = idx
		m.hashIndices[idx] = uint8(evictedHIdx)
		m.evictions++

		evictedBucketIndices := m.bucketIndices(evictedIdx)
		// try to reinsert the evicted item
		// ignore the evictedBIdx since we just inserted there
		if m.tryAdd(evictedIdx, evictedBucketIndices, true, evictedBIdx) {
			return
		}

		hIdx, ok := firstOther(evictedBucketIndices, evictedBIdx)
		if !ok {
			// every candidate of the evicted item is the bin it left
			m.toStash(evictedIdx)
			return
		}

		// insertion of evicted item unsuccessful, carry on with the chain
		idx = evictedIdx
		evictedHIdx = hIdx
		evictedBIdx = evictedBucketIndices[hIdx]
	}

	m.toStash(idx)
}

func (m *mapping) toStash(idx uint64) {
	m.stash = append(m.stash, idx)
	m.hashIndices[idx] = StashHashIndex
}

// firstOther returns the first hash index whose bin is not bIdx.
func firstOther(bucketIndices []uint64, bIdx uint64) (int, bool) {
	for hIdx, b := range bucketIndices {
		if b != bIdx {
			return hIdx, true
		}
	}

	return 0, false
}

// candidateAddresses computes the candidate bins of every item. The items
// are split in contiguous ranges among workers goroutines.
func candidateAddresses(ctx context.Context, f *lut.Function, items [][]byte, workers int) ([]uint64, error) {
	nHash := f.NumHashFunctions()
	candidates := make([]uint64, len(items)*nHash)
	n := len(items) - 1

	// the keeper has no candidates
	fill := func(lo, hi int) {
		for idx := lo; idx < hi; idx++ {
			f.AddressesTo(candidates[idx*nHash:(idx+1)*nHash], items[idx])
		}
	}

	if workers <= 1 || n < workers {
		fill(1, n+1)
		return candidates, ctx.Err()
	}

	g, ctx := errgroup.WithContext(ctx)
	chunk := (n + workers - 1) / workers
	for lo := 1; lo <= n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n+1)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fill(lo, hi)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return candidates, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}

	return b
}
