package http

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"rawhttp/application/util/rule"
	iolib "rawhttp/lib/io"

	"github.com/pkg/errors"
)

var headerEnd = []byte("\r\n\r\n")

var (
	ErrMissingStatusLine   = errors.New("status line is missing")
	ErrMalformedStatusLine = errors.New("status line is malformed")
	ErrMissingHeaderEnd    = errors.New("empty line after headers is missing")
)

// ParseResponse splits a complete response stream into status, headers and body.
//
// Parsing is lenient on purpose, so that servers that are sloppy about the
// syntax are still understood:
//   - only the status code is taken from the status line, the version is not checked.
//   - a field line is split on ": ". A line that does not split into exactly
//     a name and a value is skipped.
//   - the body is every byte after the first empty line, as-is.
func ParseResponse(raw []byte) (Response, error) {
	statusLine, _, _ := bytes.Cut(raw, rule.CRLF)
	if len(bytes.TrimSpace(statusLine)) == 0 {
		return Response{}, ErrMissingStatusLine
	}

	code, reason, err := parseStatusLine(statusLine)
	if err != nil {
		return Response{}, errors.Wrap(ErrMalformedStatusLine, err.Error())
	}

	ur := iolib.NewUntilReader(bytes.NewReader(raw))

	head, err := ur.ReadUntil(headerEnd)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Response{}, ErrMissingHeaderEnd
		}
		return Response{}, errors.Wrap(err, "reading header section")
	}

	body, err := io.ReadAll(ur)
	if err != nil {
		return Response{}, errors.Wrap(err, "reading body")
	}

	res := Response{
		StatusCode:   code,
		ReasonPhrase: reason,
		Headers:      parseFieldLines(head[:len(head)-len(headerEnd)]),
		Body:         string(body),
	}

	return res, nil
}

// parseStatusLine reads the code from the second whitespace separated token.
func parseStatusLine(line []byte) (code int, reason string, err error) {
	parts := strings.Fields(string(line))
	if len(parts) < 2 {
		return 0, "", errors.New("status code not found")
	}

	code, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, "", errors.Errorf("status code is not an integer: %q", parts[1])
	}

	return code, strings.Join(parts[2:], " "), nil
}

// parseFieldLines skips the status line at the top of head.
func parseFieldLines(head []byte) Headers {
	headers := NewHeaders()

	lines := strings.Split(string(head), string(rule.CRLF))
	for _, line := range lines[1:] {
		parts := strings.Split(line, string(fieldSep))
		if len(parts) != 2 {
			continue
		}
		headers.Set(parts[0], parts[1])
	}

	return headers
}
