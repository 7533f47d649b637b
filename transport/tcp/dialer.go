package tcp

import (
	"context"
	"net"
	"os"
	"syscall"
	"time"

	"rawhttp/transport"

	"github.com/pkg/errors"
)

type DialerOptions struct {
	// Timeout bounds connection establishment. Zero means no limit other than ctx.
	Timeout time.Duration
}

type Dialer struct {
	nd net.Dialer
}

var _ transport.ConnDialer = (*Dialer)(nil)

func NewDialer(opts DialerOptions) *Dialer {
	return &Dialer{nd: net.Dialer{Timeout: opts.Timeout}}
}

func (d *Dialer) Dial(ctx context.Context, addr transport.Addr) (transport.Conn, error) {
	if addr.Network() != transport.TCP {
		return nil, errors.Errorf("unsupported network %q", addr.Network())
	}

	c, err := d.nd.DialContext(ctx, string(transport.TCP), addr.String())
	if err != nil {
		return nil, errors.Wrapf(convertErr(err), "dialing %s", addr)
	}

	return &conn{c: c}, nil
}

type conn struct {
	c net.Conn
}

var _ transport.Conn = (*conn)(nil)

func (c *conn) Read(p []byte) (int, error) {
	n, err := c.c.Read(p)
	return n, convertErr(err)
}

func (c *conn) Write(p []byte) (int, error) {
	n, err := c.c.Write(p)
	return n, convertErr(err)
}

func (c *conn) Close() error { return convertErr(c.c.Close()) }

func (c *conn) LocalAddr() transport.Addr  { return fromNetAddr(c.c.LocalAddr()) }
func (c *conn) RemoteAddr() transport.Addr { return fromNetAddr(c.c.RemoteAddr()) }

// Setting a deadline only fails on a closed socket, which the next operation reports anyway.
func (c *conn) SetReadDeadLine(t time.Time)  { _ = c.c.SetReadDeadline(t) }
func (c *conn) SetWriteDeadLine(t time.Time) { _ = c.c.SetWriteDeadline(t) }

// sysError keeps the socket error text while matching a transport sentinel through errors.Is.
type sysError struct {
	err  error
	kind error
}

func (e *sysError) Error() string        { return e.err.Error() }
func (e *sysError) Unwrap() error        { return e.err }
func (e *sysError) Is(target error) bool { return target == e.kind }

func convertErr(err error) error {
	var kind error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, os.ErrDeadlineExceeded):
		kind = transport.ErrDeadLineExceeded
	case errors.Is(err, net.ErrClosed):
		kind = transport.ErrConnClosed
	case errors.Is(err, syscall.ECONNREFUSED):
		kind = transport.ErrConnRefused
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH):
		kind = transport.ErrNetUnreachable
	default:
		// io.EOF and friends pass through untouched.
		return err
	}
	return &sysError{err: err, kind: kind}
}
