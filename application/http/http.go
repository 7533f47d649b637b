package http

import (
	"bytes"
	"strconv"

	"github.com/pkg/errors"
)

// [Major, Minor]
type Version [2]uint

var Version1_1 = Version{1, 1}

// ParseVersion parses http version text(e.g. "HTTP/1.1") into [Version].
func ParseVersion(b []byte) (Version, error) {
	prefix := []byte("HTTP/")
	if !bytes.HasPrefix(b, prefix) {
		return Version{}, errors.Errorf("http version prefix not found: %s", b)
	}

	first, second, found := bytes.Cut(b[len(prefix):], []byte{'.'})
	if !found {
		return Version{}, errors.Errorf("dot seperator not found on version: %s", b)
	}

	major, err1 := strconv.ParseUint(string(first), 10, 64)
	minor, err2 := strconv.ParseUint(string(second), 10, 64)
	if err1 != nil || err2 != nil {
		return Version{}, errors.Errorf("http version is not convertable to int: %s", b)
	}

	return Version{uint(major), uint(minor)}, nil
}

func (ver Version) Text() []byte {
	buf := bytes.NewBuffer(nil)
	buf.WriteString("HTTP/")
	buf.WriteString(strconv.FormatUint(uint64(ver[0]), 10))
	buf.WriteByte('.')
	buf.WriteString(strconv.FormatUint(uint64(ver[1]), 10))
	return buf.Bytes()
}

func (ver Version) String() string { return string(ver.Text()) }

type Field struct{ Name, Value string }

// Text is the field line without its terminator.
func (f Field) Text() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, len(f.Name)+len(f.Value)+2))
	buf.WriteString(f.Name)
	buf.Write(fieldSep)
	buf.WriteString(f.Value)
	return buf.Bytes()
}

var fieldSep = []byte(": ")

type requestLine struct {
	Method  string
	Target  string
	Version Version
}

type Request struct {
	requestLine
	// Written in order, names as given.
	Headers []Field
	Body    []byte
}

func NewRequest(method, target string, headers []Field, body []byte) Request {
	return Request{
		requestLine: requestLine{Method: method, Target: target, Version: Version1_1},
		Headers:     headers,
		Body:        body,
	}
}

// Response is a response as it was split off the received stream.
// Nothing in it is decoded: transfer and content codings are left untouched.
type Response struct {
	StatusCode   int
	ReasonPhrase string
	Headers      Headers
	Body         string
}
