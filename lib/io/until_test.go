package iolib

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadUntil(t *testing.T) {
	sample := []byte("Hello, World!")

	testcases := []struct {
		desc     string
		delim    []byte
		expected []byte
		wantErr  error
	}{
		{
			desc:     "sample",
			delim:    []byte("Wo"),
			expected: []byte("Hello, Wo"),
		},
		{
			desc:     "not found",
			delim:    []byte("Bye!"),
			expected: []byte("Hello, World!"),
			wantErr:  io.EOF,
		},
		{
			desc:     "no delim",
			delim:    []byte(nil),
			expected: nil,
			wantErr:  ErrZeroLenDelim,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			r := NewUntilReader(bytes.NewReader(sample))
			b, err := r.ReadUntil(tc.delim)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tc.expected, b)
		})
	}
}

func TestReadAfterReadUntil(t *testing.T) {
	sample := []byte("Hello, World!")
	r := NewUntilReader(bytes.NewReader(sample))

	b, err := r.ReadUntil([]byte("el"))
	require.NoError(t, err)
	require.Equal(t, []byte("Hel"), b)

	buf := make([]byte, 10)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, []byte("lo, World!"), buf)
}

func TestReadUntilAfterReadUntil(t *testing.T) {
	sample := []byte("Hello, World!")
	r := NewUntilReader(bytes.NewReader(sample))

	b, err := r.ReadUntil([]byte("el"))
	require.NoError(t, err)
	require.Equal(t, []byte("Hel"), b)

	b, err = r.ReadUntil([]byte("Wo"))
	require.NoError(t, err)
	assert.Equal(t, []byte("lo, Wo"), b)
}

func TestReadUntilAcrossChunks(t *testing.T) {
	// The delimiter straddles the 1024 byte read boundary.
	sample := strings.Repeat("a", 1022) + "\r\n\r\nbody"
	r := NewUntilReader(strings.NewReader(sample))

	b, err := r.ReadUntil([]byte("\r\n\r\n"))
	require.NoError(t, err)
	assert.Equal(t, sample[:1026], string(b))

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "body", string(rest))
}
