package http

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse(t *testing.T) {
	testcases := []struct {
		desc    string
		input   string
		code    int
		reason  string
		headers map[string]string
		body    string
	}{
		{
			desc:    "simple",
			input:   "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\n\r\nHello",
			code:    200,
			reason:  "OK",
			headers: map[string]string{"Content-Type": "text/plain"},
			body:    "Hello",
		},
		{
			desc:    "no headers, no body",
			input:   "HTTP/1.1 404 Not Found\r\n\r\n",
			code:    404,
			reason:  "Not Found",
			headers: map[string]string{},
			body:    "",
		},
		{
			desc:    "reason phrase is optional",
			input:   "HTTP/1.0 204\r\n\r\n",
			code:    204,
			headers: map[string]string{},
		},
		{
			desc:    "duplicate header keeps last",
			input:   "HTTP/1.1 200 OK\r\nX-A: 1\r\nX-A: 2\r\n\r\n",
			code:    200,
			reason:  "OK",
			headers: map[string]string{"X-A": "2"},
		},
		{
			desc:  "lines not split by colon-space are skipped",
			input: "HTTP/1.1 200 OK\r\nGood: yes\r\nNoSpace:value\r\nno separator\r\nTwo: a: b\r\n\r\n",
			code:  200, reason: "OK",
			headers: map[string]string{"Good": "yes"},
		},
		{
			desc:    "body keeps later empty lines",
			input:   "HTTP/1.1 200 OK\r\nA: b\r\n\r\nline1\r\n\r\nline2",
			code:    200,
			reason:  "OK",
			headers: map[string]string{"A": "b"},
			body:    "line1\r\n\r\nline2",
		},
		{
			desc:    "multi word reason",
			input:   "HTTP/1.1 500 Internal Server Error\r\n\r\noops",
			code:    500,
			reason:  "Internal Server Error",
			headers: map[string]string{},
			body:    "oops",
		},
		{
			desc:    "body larger than a read chunk",
			input:   "HTTP/1.1 200 OK\r\n\r\n" + strings.Repeat("x", 5000),
			code:    200,
			reason:  "OK",
			headers: map[string]string{},
			body:    strings.Repeat("x", 5000),
		},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			res, err := ParseResponse([]byte(tc.input))
			require.NoError(t, err)

			assert.Equal(t, tc.code, res.StatusCode)
			assert.Equal(t, tc.reason, res.ReasonPhrase)
			assert.Equal(t, tc.headers, res.Headers.Map())
			assert.Equal(t, tc.body, res.Body)
		})
	}
}

func TestParseResponseHeaderOrder(t *testing.T) {
	res, err := ParseResponse([]byte("HTTP/1.1 200 OK\r\nB: 1\r\nA: 2\r\n\r\n"))
	require.NoError(t, err)
	assert.Equal(t, []Field{{"B", "1"}, {"A", "2"}}, res.Headers.Fields())
}

func TestParseResponseFails(t *testing.T) {
	testcases := []struct {
		desc    string
		input   string
		wantErr error
	}{
		{desc: "blank status line", input: "\r\n\r\n", wantErr: ErrMissingStatusLine},
		{desc: "single token", input: "HTTP/1.1\r\n\r\n", wantErr: ErrMalformedStatusLine},
		{desc: "code not a number", input: "HTTP/1.1 OK 200\r\n\r\n", wantErr: ErrMalformedStatusLine},
		{desc: "no empty line", input: "HTTP/1.1 200 OK\r\nA: b\r\n", wantErr: ErrMissingHeaderEnd},
		{desc: "status line only", input: "HTTP/1.1 200 OK", wantErr: ErrMissingHeaderEnd},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := ParseResponse([]byte(tc.input))
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
