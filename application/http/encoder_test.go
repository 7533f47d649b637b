package http

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/suite"
)

type RequestEncoderTestSuite struct {
	suite.Suite
}

func TestRequestEncoderTestSuite(t *testing.T) {
	suite.Run(t, new(RequestEncoderTestSuite))
}

func (s *RequestEncoderTestSuite) TestWriteLine() {
	testcases := []struct {
		desc     string
		input    []byte
		opts     EncodeOptions
		expected string
	}{
		{
			desc:     "simple line with CRLF",
			input:    []byte("Hello"),
			expected: "Hello\r\n",
		},
		{
			desc:     "simple line with LF",
			input:    []byte("Hello"),
			opts:     EncodeOptions{UseSoleLF: true},
			expected: "Hello\n",
		},
		{
			desc:     "empty line",
			input:    nil,
			expected: "\r\n",
		},
	}

	for _, tc := range testcases {
		s.Run(tc.desc, func() {
			var buf bytes.Buffer
			re := RequestEncoder{bw: bufio.NewWriter(&buf), opts: tc.opts}

			s.NoError(re.writeLine(tc.input))
			s.NoError(re.bw.Flush())

			s.Equal(tc.expected, buf.String())
		})
	}
}

func (s *RequestEncoderTestSuite) TestEncode() {
	testcases := []struct {
		desc     string
		request  Request
		expected string
	}{
		{
			desc: "without body",
			request: NewRequest("GET", "/x", []Field{
				{Name: "Host", Value: "example.com"},
				{Name: "Accept", Value: "*/*"},
			}, nil),
			expected: "GET /x HTTP/1.1\r\n" +
				"Host: example.com\r\n" +
				"Accept: */*\r\n" +
				"\r\n",
		},
		{
			desc: "with body",
			request: NewRequest("POST", "/form?x=1", []Field{
				{Name: "Content-Length", Value: "3"},
			}, []byte("a=1")),
			expected: "POST /form?x=1 HTTP/1.1\r\n" +
				"Content-Length: 3\r\n" +
				"\r\n" +
				"a=1",
		},
		{
			desc:     "no headers",
			request:  NewRequest("GET", "/", nil, nil),
			expected: "GET / HTTP/1.1\r\n\r\n",
		},
	}

	for _, tc := range testcases {
		s.Run(tc.desc, func() {
			var buf bytes.Buffer
			s.Require().NoError(NewRequestEncoder(&buf, DefaultEncodeOptions).Encode(tc.request))
			s.Equal(tc.expected, buf.String())

			b, err := EncodeRequest(tc.request, DefaultEncodeOptions)
			s.Require().NoError(err)
			s.Equal(tc.expected, string(b))
		})
	}
}

func (s *RequestEncoderTestSuite) TestLineBreakRefused() {
	var buf bytes.Buffer
	re := RequestEncoder{bw: bufio.NewWriter(&buf), opts: DefaultEncodeOptions}
	s.ErrorIs(re.writeLine([]byte("Host: a\r\nX-Evil: yes")), ErrLineBreakInLine)
	s.ErrorIs(re.writeLine([]byte("a\nb")), ErrLineBreakInLine)

	testcases := []struct {
		desc    string
		request Request
	}{
		{
			desc:    "field value",
			request: NewRequest("GET", "/", []Field{{Name: "Host", Value: "example.com\r\nX-Evil: yes"}}, nil),
		},
		{
			desc:    "field name",
			request: NewRequest("GET", "/", []Field{{Name: "X\nY", Value: "1"}}, nil),
		},
		{
			desc:    "request target",
			request: NewRequest("GET", "/\r\nX-Evil: yes", nil, nil),
		},
	}

	for _, tc := range testcases {
		s.Run(tc.desc, func() {
			b, err := EncodeRequest(tc.request, DefaultEncodeOptions)
			s.ErrorIs(err, ErrLineBreakInLine)
			s.Nil(b)
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, bytes.ErrTooLarge }

func (s *RequestEncoderTestSuite) TestEncodeWriteError() {
	err := NewRequestEncoder(failingWriter{}, DefaultEncodeOptions).
		Encode(NewRequest("GET", "/", nil, nil))
	s.ErrorIs(err, bytes.ErrTooLarge)
}
