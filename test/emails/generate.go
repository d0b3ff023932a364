package emails

import (
	"crypto/rand"
	"encoding/hex"
	"log"
)

// identifiers look like hashed emails:
//  e:0e1f461bbefa6e07cc2ef06b9ee1ed25101e24d4345af266ed2f5a58bcd26c5e
//  e:59245d7c68b28404e068b15cba430082549b845ab412c4c3b31fb8632fd794e1
//
// hashes are random blobs of length HashLen expressed in hex and prefixed with Prefix

const (
	Prefix  = "e:"
	HashLen = 32
)

// Generate writes n fresh identifiers to a channel, each followed by \r\n,
// and then closes it. The first repeats identifiers are written twice,
// right after the first copy, so the channel yields n+repeats lines.
func Generate(n, repeats int) <-chan []byte {
	out := make(chan []byte)
	go func() {
		defer close(out)
		for i := 0; i < n; i++ {
			b := make([]byte, HashLen)
			if _, err := rand.Read(b); err != nil {
				log.Fatalf("could not generate identifier #%d: %v", i, err)
			}

			id := prefix(b)
			out <- id
			if i < repeats {
				out <- append([]byte(nil), id...)
			}
		}
	}()

	return out
}

// Prefix a byte value with the local preset prefix
// and add \r\n at the end
func prefix(value []byte) []byte {
	// make final string
	out := make([]byte, len(Prefix)+hex.EncodedLen(len(value)))
	// copy the prefix first and then the
	// hex string
	copy(out, Prefix)
	hex.Encode(out[len(Prefix):], value)
	//  and return this
	return append(out, "\r\n"...)
}
