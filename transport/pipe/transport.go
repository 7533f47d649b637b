package pipe

import (
	"context"
	"sync"

	"rawhttp/transport"

	"github.com/benbjohnson/clock"
)

type dialRequest struct {
	conn     *pipe
	accepted chan struct{}
}

// Transport routes dials to listeners by the dialed address' String().
type Transport struct {
	listeners map[string]*Listener
	clock     clock.Clock

	mu sync.Mutex
}

var _ transport.ConnDialer = (*Transport)(nil)

func NewTransport(clock clock.Clock) *Transport {
	return &Transport{
		listeners: make(map[string]*Listener),
		clock:     clock,
	}
}

// Dial fails with [transport.ErrConnRefused] when nothing listens on addr.
func (t *Transport) Dial(ctx context.Context, addr transport.Addr) (transport.Conn, error) {
	t.mu.Lock()
	l, ok := t.listeners[addr.String()]
	t.mu.Unlock()

	if !ok {
		return nil, transport.ErrConnRefused
	}

	local, remote := NewPair("dialer", addr.String(), t.clock)
	req := dialRequest{conn: remote, accepted: make(chan struct{})}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-l.closed:
		return nil, transport.ErrConnRefused
	case l.requests <- req:
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-l.closed:
		return nil, transport.ErrConnRefused
	case <-req.accepted:
	}

	return local, nil
}

func (t *Transport) Listen(name string) (*Listener, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.listeners[name]; ok {
		return nil, transport.ErrAddrAlreadyInUse
	}

	l := &Listener{
		addr:      Addr{Name: name},
		transport: t,
		requests:  make(chan dialRequest),
		closed:    make(chan struct{}),
	}
	t.listeners[name] = l

	return l, nil
}

type Listener struct {
	addr      Addr
	transport *Transport

	requests chan dialRequest
	closed   chan struct{}
	once     sync.Once
}

var _ transport.ConnListener = (*Listener)(nil)

func (l *Listener) Addr() transport.Addr { return l.addr }

func (l *Listener) Accept(ctx context.Context) (transport.Conn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-l.closed:
		return nil, transport.ErrConnListnerClosed
	case req := <-l.requests:
		close(req.accepted)
		return req.conn, nil
	}
}

func (l *Listener) Close() error {
	closed := false
	l.once.Do(func() {
		close(l.closed)
		closed = true
	})
	if !closed {
		return transport.ErrConnListnerClosed
	}

	l.transport.mu.Lock()
	delete(l.transport.listeners, l.addr.Name)
	l.transport.mu.Unlock()

	return nil
}
