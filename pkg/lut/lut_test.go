package lut

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/alecthomas/unsafeslice"
	"github.com/optable/lutcuckoo/pkg/hashing"
)

// counter is a Generator returning 1, 2, 3...
type counter uint64

func (c *counter) Uint64() uint64 {
	*c++
	return uint64(*c)
}

func TestAllocateErrors(t *testing.T) {
	allocateTests := []struct {
		h, l, a int
	}{
		{0, 10, 10},
		{2, 0, 10},
		{2, 10, 0},
		{-1, 10, 10},
	}

	for _, tt := range allocateTests {
		if _, err := Allocate(tt.h, tt.l, tt.a); !errors.Is(err, hashing.ErrConfiguration) {
			t.Errorf("Allocate(%d, %d, %d): want: %v, got: %v", tt.h, tt.l, tt.a, hashing.ErrConfiguration, err)
		}
	}
}

func TestFillOrder(t *testing.T) {
	b, err := Allocate(2, 3, 4)
	if err != nil {
		t.Fatal(err)
	}

	var c counter
	b.Fill(&c)

	want := uint64(1)
	for h := 0; h < 2; h++ {
		for l := 0; l < 3; l++ {
			for a := 0; a < 4; a++ {
				if got := b.Entry(h, l, a); got != want {
					t.Errorf("Entry(%d, %d, %d): want: %d, got: %d", h, l, a, want, got)
				}
				want++
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(0, 2, 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Generate(0, 2, 10, 10)
	c, _ := Generate(1, 2, 10, 10)

	differ := false
	for h := 0; h < 2; h++ {
		for l := 0; l < 10; l++ {
			for i := 0; i < 10; i++ {
				if a.Entry(h, l, i) != b.Entry(h, l, i) {
					t.Fatalf("Entry(%d, %d, %d) differs between banks with the same seed", h, l, i)
				}
				if a.Entry(h, l, i) != c.Entry(h, l, i) {
					differ = true
				}
			}
		}
	}

	if !differ {
		t.Errorf("banks generated with seeds 0 and 1 are identical")
	}
}

func TestBytes(t *testing.T) {
	b, err := Generate(3, 2, 4, 5)
	if err != nil {
		t.Fatal(err)
	}

	raw, err := b.Bytes(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 5*8 {
		t.Fatalf("Bytes(1, 2) length: want: %d, got: %d", 5*8, len(raw))
	}
	for a := 0; a < 5; a++ {
		if got := binary.LittleEndian.Uint64(raw[a*8:]); isLittleEndian() && got != b.Entry(1, 2, a) {
			t.Errorf("Bytes(1, 2) entry %d: want: %d, got: %d", a, b.Entry(1, 2, a), got)
		}
	}

	if _, err := b.Bytes(2, 0); err == nil {
		t.Errorf("Bytes(2, 0) on a bank with 2 hash functions: want error, got nil")
	}
}

func TestFunctionHashByHand(t *testing.T) {
	b, _ := Allocate(2, 10, 10)
	var c counter
	b.Fill(&c)

	f, err := NewFunction(b, 32, 1<<62)
	if err != nil {
		t.Fatal(err)
	}

	// bytes 0..7 are 0x00, 0x11, ..., 0x77
	element := []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77}
	for h := 0; h < 2; h++ {
		var want uint64
		for l := 0; l < 10; l++ {
			idx := int(element[l*8/10]) % 32 % 10
			want ^= b.Entry(h, l, idx)
		}
		if got := f.Hash(element, h); got != want {
			t.Errorf("Hash(%x, %d): want: %d, got: %d", element, h, want, got)
		}
	}
}

func TestAddresses(t *testing.T) {
	b, _ := Generate(0, 3, 10, 10)
	f, err := NewFunction(b, 32, 7)
	if err != nil {
		t.Fatal(err)
	}

	for v := uint64(0); v < 1000; v++ {
		e := hashing.Uint64Element(v * 0x9e3779b97f4a7c15)
		addrs := f.Addresses(e)
		if len(addrs) != 3 {
			t.Fatalf("Addresses(%x): want: 3 addresses, got: %d", e, len(addrs))
		}
		for h, a := range addrs {
			if a >= 7 {
				t.Errorf("Addresses(%x)[%d] = %d; want < 7", e, h, a)
			}
			if a != f.Address(e, h) {
				t.Errorf("Addresses(%x)[%d] = %d; Address = %d", e, h, a, f.Address(e, h))
			}
		}

		again := f.Addresses(e)
		for h := range addrs {
			if addrs[h] != again[h] {
				t.Fatalf("Addresses(%x) is not idempotent: %v then %v", e, addrs, again)
			}
		}
	}
}

func TestAddressesUseEveryHashFunction(t *testing.T) {
	b, _ := Allocate(2, 10, 10)
	var c counter
	b.Fill(&c)
	f, _ := NewFunction(b, 32, 1<<62)

	// the two hash functions use disjoint entries, so their values differ
	e := hashing.Uint64Element(12345)
	if f.Hash(e, 0) == f.Hash(e, 1) {
		t.Errorf("hash functions 0 and 1 agree on %x", e)
	}
}

func TestNewFunctionErrors(t *testing.T) {
	b, _ := Generate(0, 2, 10, 10)
	newFunctionTests := []struct {
		bank    *Bank
		tables  int
		numBins uint64
	}{
		{nil, 32, 10},
		{b, 0, 10},
		{b, 32, 0},
	}

	for _, tt := range newFunctionTests {
		if _, err := NewFunction(tt.bank, tt.tables, tt.numBins); !errors.Is(err, hashing.ErrConfiguration) {
			t.Errorf("NewFunction(%v, %d, %d): want: %v, got: %v", tt.bank != nil, tt.tables, tt.numBins, hashing.ErrConfiguration, err)
		}
	}
}

func BenchmarkAddresses(b *testing.B) {
	bank, _ := Generate(0, 2, 10, 10)
	f, _ := NewFunction(bank, 32, 1<<20)
	e := hashing.Uint64Element(42)
	dst := make([]uint64, 2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.AddressesTo(dst, e)
	}
}

func isLittleEndian() bool {
	return unsafeslice.ByteSliceFromUint64Slice([]uint64{1})[0] == 1
}
