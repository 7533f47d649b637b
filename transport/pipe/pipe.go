// Package pipe provides an in-memory [transport.ConnDialer].
// Both ends of a conn are synchronous and unbuffered, like net.Pipe,
// but deadlines are driven by a [clock.Clock] so tests can fire them on demand.
package pipe

import (
	"io"
	"sync"
	"time"

	"rawhttp/transport"

	"github.com/benbjohnson/clock"
)

const Network transport.Protocol = "pipe"

type Addr struct {
	Name string
}

func (a Addr) Network() transport.Protocol { return Network }
func (a Addr) String() string              { return a.Name }

var _ transport.Addr = Addr{}

type pipe struct {
	stream chan []byte // stream that this pipe reads from.
	nc     chan int    // counterpart's read count will be sent here.

	writeMu sync.Mutex

	closed chan struct{}
	once   sync.Once

	rdeadLine *chanDeadLine
	wdeadLine *chanDeadLine

	counterpart *pipe

	addr Addr
}

var _ transport.Conn = (*pipe)(nil)

// NewPair creates two connected ends named name1 and name2.
func NewPair(name1, name2 string, clock clock.Clock) (c1, c2 *pipe) {
	c1, c2 = newPipe(name1, clock), newPipe(name2, clock)
	c1.counterpart, c2.counterpart = c2, c1
	return c1, c2
}

func newPipe(name string, clock clock.Clock) *pipe {
	return &pipe{
		stream:    make(chan []byte),
		nc:        make(chan int),
		closed:    make(chan struct{}),
		rdeadLine: newChanDeadLine(clock),
		wdeadLine: newChanDeadLine(clock),
		addr:      Addr{Name: name},
	}
}

func (p *pipe) LocalAddr() transport.Addr  { return p.addr }
func (p *pipe) RemoteAddr() transport.Addr { return p.counterpart.addr }

func (p *pipe) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}

func (p *pipe) Read(b []byte) (n int, err error) {
	switch {
	case isClosed(p.closed):
		return 0, transport.ErrConnClosed
	case isClosed(p.counterpart.closed):
		return 0, io.EOF
	case isClosed(p.rdeadLine.wait()):
		return 0, transport.ErrDeadLineExceeded
	}

	select {
	case received := <-p.stream:
		n := copy(b, received)
		p.counterpart.nc <- n
		return n, nil
	case <-p.closed:
		return 0, transport.ErrConnClosed
	case <-p.counterpart.closed:
		// Writes are synchronous, so nothing is left in flight once the peer is gone.
		return 0, io.EOF
	case <-p.rdeadLine.wait():
		return 0, transport.ErrDeadLineExceeded
	}
}

func (p *pipe) Write(b []byte) (n int, err error) {
	switch {
	case isClosed(p.closed), isClosed(p.counterpart.closed):
		return 0, transport.ErrConnClosed
	case isClosed(p.wdeadLine.wait()):
		return 0, transport.ErrDeadLineExceeded
	}

	// Serialize writes so that chunks of different calls don't interleave.
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	for len(b) > 0 {
		select {
		case p.counterpart.stream <- b:
			nn := <-p.nc
			b = b[nn:]
			n += nn
		case <-p.closed:
			return n, transport.ErrConnClosed
		case <-p.counterpart.closed:
			return n, transport.ErrConnClosed
		case <-p.wdeadLine.wait():
			return n, transport.ErrDeadLineExceeded
		}
	}

	return n, nil
}

func (p *pipe) SetReadDeadLine(t time.Time)  { p.rdeadLine.set(t) }
func (p *pipe) SetWriteDeadLine(t time.Time) { p.wdeadLine.set(t) }

type chanDeadLine struct {
	clock clock.Clock

	t *clock.Timer
	m sync.Mutex

	closed chan struct{}
}

func newChanDeadLine(clock clock.Clock) *chanDeadLine {
	return &chanDeadLine{
		clock:  clock,
		closed: make(chan struct{}),
	}
}

func (d *chanDeadLine) set(t time.Time) {
	d.m.Lock()
	defer d.m.Unlock()

	if d.t != nil {
		d.t.Stop()
		d.t = nil
	}

	if isClosed(d.closed) {
		d.closed = make(chan struct{})
	}

	if t.IsZero() {
		return
	}

	closed := d.closed
	until := d.clock.Until(t)
	if until <= 0 {
		close(closed)
		return
	}

	d.t = d.clock.AfterFunc(until, func() { close(closed) })
}

func (d *chanDeadLine) wait() <-chan struct{} {
	d.m.Lock()
	defer d.m.Unlock()
	return d.closed
}

func isClosed(c <-chan struct{}) bool {
	select {
	case <-c:
		return true
	default:
		return false
	}
}
