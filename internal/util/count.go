package util

import (
	"bufio"
	"io"
)

// Count counts the number of identifiers in r, one per line.
// Blank lines are not identifiers and are skipped, as in Exhaust.
func Count(r io.Reader) (int64, error) {
	var n int64
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if len(trim(scanner.Bytes())) != 0 {
			n++
		}
	}
	if err := scanner.Err(); err != nil {
		return n, err
	}

	return n, nil
}
