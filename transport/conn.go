package transport

import (
	"context"
	"errors"
	"time"
)

var (
	ErrConnClosed        = errors.New("connection is closed")
	ErrConnListnerClosed = errors.New("conn listener is closed")
	ErrDeadLineExceeded  = errors.New("deadline exceeded")
	ErrConnRefused       = errors.New("connection refused")
	ErrNetUnreachable    = errors.New("network is unreachable")
	ErrAddrAlreadyInUse  = errors.New("address already in use")
)

// Conn is a full-duplex byte stream.
//
// Read returns io.EOF once the peer has closed its side and every byte it sent
// has been consumed. Operations on a conn closed locally return [ErrConnClosed].
type Conn interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Close() error

	LocalAddr() Addr
	RemoteAddr() Addr

	// Zero value means no deadline.
	// Expired deadlines make the operation fail with [ErrDeadLineExceeded].
	SetReadDeadLine(t time.Time)
	SetWriteDeadLine(t time.Time)
}

type ConnListener interface {
	Accept(ctx context.Context) (Conn, error)
	Close() error
}

type ConnDialer interface {
	Dial(ctx context.Context, addr Addr) (Conn, error)
}
