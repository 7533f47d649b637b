package client

import (
	"github.com/pkg/errors"
)

type Kind uint8

const (
	_ Kind = iota
	// The URL cannot be taken apart into scheme and host. Nothing was sent.
	KindMalformedURL
	// Connecting, writing or reading failed.
	KindConnection
	// The response stream could not be split into status, headers and body.
	KindProtocolParse
	// The read deadline passed before the server closed the connection.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindMalformedURL:
		return "malformed url"
	case KindConnection:
		return "connection"
	case KindProtocolParse:
		return "protocol parse"
	case KindTimeout:
		return "timeout"
	}
	return "unknown"
}

// Error tags a failure with the step of the exchange it happened in.
type Error struct {
	Kind  Kind
	cause error
}

func newError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, cause: cause}
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Kind.String() + " error"
	}
	return e.Kind.String() + " error: " + e.cause.Error()
}

func (e *Error) Cause() error  { return e.cause }
func (e *Error) Unwrap() error { return e.cause }

// KindOf finds the [Kind] of the first [*Error] in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
