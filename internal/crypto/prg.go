package crypto

import (
	"encoding/binary"

	"github.com/zeebo/blake3"
)

// streamBufferSize is the number of pseudorandom bytes pulled from
// the XOF per refill, a multiple of 8.
const streamBufferSize = 512

// Stream is a seeded, deterministic stream of 64-bit values backed
// by the blake3 extendable output function. Two streams created with
// the same seed produce the same sequence of values.
// A Stream is not safe for concurrent use.
type Stream struct {
	drbg *blake3.Digest
	buf  [streamBufferSize]byte
	pos  int
}

// NewStream creates a Stream keyed by the little-endian encoding of seed.
func NewStream(seed uint64) *Stream {
	var s [8]byte
	binary.LittleEndian.PutUint64(s[:], seed)

	h := blake3.New()
	// blake3.Hasher.Write never returns an error
	h.Write(s[:])

	return &Stream{drbg: h.Digest(), pos: streamBufferSize}
}

// Uint64 returns the next value of the stream.
func (s *Stream) Uint64() uint64 {
	if s.pos == streamBufferSize {
		// reading from a blake3 digest never fails
		s.drbg.Read(s.buf[:])
		s.pos = 0
	}

	v := binary.LittleEndian.Uint64(s.buf[s.pos:])
	s.pos += 8
	return v
}
