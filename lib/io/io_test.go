package iolib

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"rawhttp/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFull(t *testing.T) {
	data := []byte("Hello, World!")
	var buf bytes.Buffer

	written, err := WriteFull(&buf, data)
	assert.NoError(t, err)
	assert.Equal(t, uint(len(data)), written)
	assert.Equal(t, data, buf.Bytes())
}

// shortWriter accepts at most 3 bytes per call.
type shortWriter struct{ buf bytes.Buffer }

func (w *shortWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p[:min(3, len(p))])
}

func TestWriteFullShortWrites(t *testing.T) {
	data := []byte("GET / HTTP/1.1\r\n\r\n")
	w := &shortWriter{}

	written, err := WriteFull(w, data)
	require.NoError(t, err)
	assert.Equal(t, uint(len(data)), written)
	assert.Equal(t, data, w.buf.Bytes())
}

func TestReadUntilEOF(t *testing.T) {
	sample := strings.Repeat("0123456789", 300)

	testcases := []struct {
		desc      string
		reader    io.Reader
		chunkSize uint
		limit     uint
		expected  string
		wantErr   error
	}{
		{desc: "empty", reader: strings.NewReader(""), chunkSize: 1024, expected: ""},
		{desc: "several chunks", reader: strings.NewReader(sample), chunkSize: 1024, expected: sample},
		{desc: "one byte at a time", reader: iotest.OneByteReader(strings.NewReader("abc")), chunkSize: 1024, expected: "abc"},
		{desc: "data with EOF", reader: iotest.DataErrReader(strings.NewReader("abc")), chunkSize: 2, expected: "abc"},
		{desc: "exact limit", reader: strings.NewReader("abcd"), chunkSize: 2, limit: 4, expected: "abcd"},
		{desc: "over limit", reader: strings.NewReader("abcde"), chunkSize: 2, limit: 4, expected: "abcd", wantErr: ErrReadLimitExceeded},
		{desc: "reader error", reader: iotest.TimeoutReader(strings.NewReader("abcdef")), chunkSize: 4, expected: "abcd", wantErr: iotest.ErrTimeout},
		{
			desc:      "closed connection is not end of stream",
			reader:    io.MultiReader(strings.NewReader("ab"), iotest.ErrReader(transport.ErrConnClosed)),
			chunkSize: 4,
			expected:  "ab",
			wantErr:   transport.ErrConnClosed,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			b, err := ReadUntilEOF(tc.reader, tc.chunkSize, tc.limit)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expected, string(b))
		})
	}
}

type stuckReader struct{}

func (stuckReader) Read(p []byte) (int, error) { return 0, nil }

func TestReadUntilEOFNoProgress(t *testing.T) {
	_, err := ReadUntilEOF(stuckReader{}, 8, 0)
	assert.True(t, errors.Is(err, io.ErrNoProgress))
}

func TestReadUntilEOFZeroChunk(t *testing.T) {
	_, err := ReadUntilEOF(strings.NewReader("x"), 0, 0)
	assert.Error(t, err)
}
