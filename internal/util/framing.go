package util

import (
	"bufio"
	"io"

	"github.com/go-logr/logr"
)

// SafeReadLine blocks until a whole line can be read or
// r returns an error. The line terminator, \n or \r\n, is stripped.
func SafeReadLine(r *bufio.Reader) (line []byte, err error) {
	line, err = r.ReadBytes('\n')
	return trim(line), err
}

// Exhaust reads at most n identifiers from r and sends them on the
// returned channel, which is closed once r is exhausted.
// The format of an identifier is string\n, blank lines are skipped.
func Exhaust(n int64, r io.Reader, logger logr.Logger) <-chan []byte {
	// make the output channel
	var identifiers = make(chan []byte)
	// wrap r in a bufio reader
	src := bufio.NewReader(r)
	go func() {
		defer close(identifiers)
		for i := int64(0); i < n; {
			identifier, err := SafeReadLine(src)
			if len(identifier) != 0 {
				identifiers <- identifier
				i++
			}
			if err != nil {
				if err != io.EOF {
					logger.Error(err, "error reading identifiers", "read", i)
				}
				return
			}
		}
	}()

	return identifiers
}

func trim(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}

	return line
}
