// Package tcp adapts operating system TCP sockets to [transport.Conn].
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9293
package tcp

import (
	"net"
	"strconv"

	"rawhttp/transport"
)

type Addr struct {
	host string
	port uint16
}

var _ transport.Addr = Addr{}

// NewAddr makes an address out of a host name or IP literal (IPv6 without brackets) and a port.
func NewAddr(host string, port uint16) Addr {
	return Addr{host, port}
}

func (a Addr) Host() string                { return a.host }
func (a Addr) Port() uint16                { return a.port }
func (a Addr) Network() transport.Protocol { return transport.TCP }

func (a Addr) String() string {
	return net.JoinHostPort(a.host, strconv.FormatUint(uint64(a.port), 10))
}

func fromNetAddr(addr net.Addr) transport.Addr {
	tcpAddr, ok := addr.(*net.TCPAddr)
	if !ok || tcpAddr == nil {
		return Addr{}
	}
	return Addr{host: tcpAddr.IP.String(), port: uint16(tcpAddr.Port)}
}
