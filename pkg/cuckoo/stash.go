package cuckoo

import "math/bits"

var stashSize = map[uint8]uint8{
	// key is log_2(|X|)
	// value is # of elements in stash
	// values taken from Phasing: PSI using permutation-based hashing
	8:  12,
	12: 6,
	16: 4,
	20: 3,
	24: 2,
}

// ExpectedStashSize returns the number of stashed elements tolerated when
// mapping size elements, following the bounds of Phasing: PSI using
// permutation-based hashing. A larger stash means epsilon is too small.
func ExpectedStashSize(size uint64) uint8 {
	if size == 0 {
		return 0
	}

	logSize := uint8(bits.Len64(size) - 1)

	switch {
	case logSize <= 8:
		return stashSize[8]
	case logSize > 8 && logSize <= 12:
		return stashSize[12]
	case logSize > 12 && logSize <= 16:
		return stashSize[16]
	case logSize > 16 && logSize <= 20:
		return stashSize[20]
	case logSize > 20 && logSize <= 24:
		return stashSize[24]
	default:
		return uint8(0)
	}
}
