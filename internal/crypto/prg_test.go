package crypto

import (
	"bytes"
	"testing"

	"github.com/zeebo/blake3"
)

func TestStreamDeterministic(t *testing.T) {
	a, b := NewStream(42), NewStream(42)
	// cross at least one buffer refill
	for i := 0; i < 3*streamBufferSize/8; i++ {
		if x, y := a.Uint64(), b.Uint64(); x != y {
			t.Fatalf("Uint64 #%d: want: %d, got: %d", i, x, y)
		}
	}
}

func TestStreamSeedsDiffer(t *testing.T) {
	a, b := NewStream(0), NewStream(1)
	same := 0
	for i := 0; i < 64; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}

	if same == 64 {
		t.Errorf("streams seeded with 0 and 1 produced identical output")
	}
}

func TestStreamIsBlake3Output(t *testing.T) {
	h := blake3.New()
	h.Write([]byte{7, 0, 0, 0, 0, 0, 0, 0})
	want := make([]byte, 64)
	if _, err := h.Digest().Read(want); err != nil {
		t.Fatal(err)
	}

	s := NewStream(7)
	got := make([]byte, 0, 64)
	for i := 0; i < 8; i++ {
		v := s.Uint64()
		for j := 0; j < 8; j++ {
			got = append(got, byte(v>>(8*j)))
		}
	}

	if !bytes.Equal(want, got) {
		t.Errorf("stream is not the blake3 output, want: %x, got: %x", want, got)
	}
}

func BenchmarkStream(b *testing.B) {
	s := NewStream(0)
	for i := 0; i < b.N; i++ {
		s.Uint64()
	}
}
