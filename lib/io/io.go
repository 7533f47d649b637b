// Package iolib has the stream helpers the client builds its exchange on.
package iolib

import (
	"io"

	"github.com/pkg/errors"
)

// WriteFull keeps writing until buf is written or w fails.
func WriteFull(w io.Writer, buf []byte) (uint, error) {
	total := uint(0)
	for total < uint(len(buf)) {
		n, err := w.Write(buf[total:])
		total += uint(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

var ErrReadLimitExceeded = errors.New("read limit exceeded")

// maxConsecutiveEmptyReads matches the bound bufio puts on readers that make no progress.
const maxConsecutiveEmptyReads = 100

// ReadUntilEOF reads r in chunks of chunkSize bytes until r reports [io.EOF].
// It fails with [ErrReadLimitExceeded] once more than limit bytes arrive. Zero limit means no limit.
// Whatever was read is returned along with any error.
func ReadUntilEOF(r io.Reader, chunkSize uint, limit uint) ([]byte, error) {
	if chunkSize == 0 {
		return nil, errors.New("chunk size must be greater than 0")
	}

	if limit > 0 {
		// One more byte than allowed tells an exact fit apart from an overflow.
		r = LimitReader(r, limit+1)
	}

	var buf []byte
	chunk := make([]byte, chunkSize)
	empty := 0
	for {
		n, err := r.Read(chunk)
		buf = append(buf, chunk[:n]...)

		if limit > 0 && uint(len(buf)) > limit {
			return buf[:limit], ErrReadLimitExceeded
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return buf, nil
			}
			return buf, err
		}

		if n == 0 {
			empty++
			if empty >= maxConsecutiveEmptyReads {
				return buf, io.ErrNoProgress
			}
			continue
		}
		empty = 0
	}
}
