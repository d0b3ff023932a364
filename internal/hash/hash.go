package hash

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/minio/highwayhash"
	"github.com/shivakar/metrohash"
	"github.com/twmb/murmur3"
)

const (
	SaltLength = 32

	Murmur3 = iota
	Metro
	Highway
	XXHash
)

var (
	ErrUnknownHash        = fmt.Errorf("cannot create a hasher of unknown hash type")
	ErrSaltLengthMismatch = fmt.Errorf("provided salt is not %d length", SaltLength)
)

var names = map[string]int{
	"murmur3": Murmur3,
	"metro":   Metro,
	"highway": Highway,
	"xxhash":  XXHash,
}

// Hasher implements different non cryptographic hashing functions
type Hasher interface {
	Hash64([]byte) uint64
}

// New creates a hasher of type t
func New(t int, salt []byte) (Hasher, error) {
	switch t {
	case Murmur3:
		return NewMurmur3Hasher(salt)
	case Metro:
		return NewMetroHasher(salt)
	case Highway:
		return NewHighwayHasher(salt)
	case XXHash:
		return NewXXHasher(salt)
	default:
		return nil, ErrUnknownHash
	}
}

// Parse returns the hash type called name.
func Parse(name string) (int, error) {
	if t, ok := names[name]; ok {
		return t, nil
	}

	return 0, fmt.Errorf("%q: %w", name, ErrUnknownHash)
}

// Element digests an identifier of any length into an 8-byte
// little-endian element. The address functions of the hashing tables
// expect uniformly distributed elements, which structured identifiers
// (emails, sequential ids) are not.
func Element(h Hasher, identifier []byte) []byte {
	e := make([]byte, 8)
	binary.LittleEndian.PutUint64(e, h.Hash64(identifier))
	return e
}

// Murmur3 implementation of Hasher
type murmur64 struct {
	salt []byte
}

// NewMurmur3Hasher returns a Murmur3 hasher that uses salt as a prefix to the
// bytes being summed
func NewMurmur3Hasher(salt []byte) (murmur64, error) {
	if len(salt) != SaltLength {
		return murmur64{}, ErrSaltLengthMismatch
	}

	return murmur64{salt: salt}, nil
}

func (t murmur64) Hash64(p []byte) uint64 {
	h := murmur3.New64()
	h.Write(t.salt)
	h.Write(p)
	return h.Sum64()
}

// Metro Hash implementation of Hasher
type metro struct {
	salt []byte
}

// NewMetroHasher returns a metro64 hasher that uses salt as a
// prefix to the bytes being summed
func NewMetroHasher(salt []byte) (metro, error) {
	if len(salt) != SaltLength {
		return metro{}, ErrSaltLengthMismatch
	}

	return metro{salt: salt}, nil
}

func (m metro) Hash64(p []byte) uint64 {
	h := metrohash.NewMetroHash64()
	h.Write(m.salt)
	h.Write(p)
	return h.Sum64()
}

// HighwayHash implementation of Hasher, keyed by the salt
type highway struct {
	key []byte
}

// NewHighwayHasher returns a HighwayHash-64 hasher that uses salt as its key
func NewHighwayHasher(salt []byte) (highway, error) {
	if len(salt) != SaltLength {
		return highway{}, ErrSaltLengthMismatch
	}

	return highway{key: salt}, nil
}

func (h highway) Hash64(p []byte) uint64 {
	return highwayhash.Sum64(p, h.key)
}

// xxHash implementation of Hasher
type xxHasher struct {
	salt []byte
}

// NewXXHasher returns a xxHash64 hasher that uses salt as a prefix to the
// bytes being summed
func NewXXHasher(salt []byte) (xxHasher, error) {
	if len(salt) != SaltLength {
		return xxHasher{}, ErrSaltLengthMismatch
	}

	return xxHasher{salt: salt}, nil
}

func (x xxHasher) Hash64(p []byte) uint64 {
	d := xxhash.New()
	d.Write(x.salt)
	d.Write(p)
	return d.Sum64()
}
