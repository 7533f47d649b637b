// Package transport defines the byte-stream abstraction the HTTP client runs on.
//
// Implementations:
//
// - [rawhttp/transport/tcp] dials real sockets.
//
// - [rawhttp/transport/pipe] connects both ends in memory.
package transport

type Protocol string

const (
	TCP Protocol = "tcp"
	// UDP Protocol = "udp"
)

type Addr interface {
	Network() Protocol
	String() string // host:port form, IPv6 hosts bracketed.
}
