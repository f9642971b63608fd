// Package transport provides the UDP multicast sockets the responder and
// browser send and receive mDNS packets through.
//
// It is grounded on the mdns/transport package (Transport interface,
// per-family PacketConn wrappers, buffer pool, group-join logic), adapted
// to hand off raw packet bytes rather than a parsed *dns.Msg, and
// enriched with the SO_REUSEADDR/SO_REUSEPORT socket options so more than
// one mDNS implementation can share port 5353 on a host (see
// socket_linux.go et al.).
package transport

import "net"

// Port is the mDNS port number.
//
// See https://tools.ietf.org/html/rfc6762#section-3.
const Port = 5353

// bufferSize is the maximum datagram size this stack will read, per RFC
// 6762's 9000-byte EDNS0 payload allowance.
const bufferSize = 9000

// Endpoint is the origin or destination of a packet.
type Endpoint struct {
	InterfaceIndex int
	Address        *net.UDPAddr
}

// InboundPacket is a UDP datagram received from a Transport.
type InboundPacket struct {
	Transport Transport
	Source    Endpoint
	Data      []byte
}

// Close returns the packet's data buffer to the pool.
func (p *InboundPacket) Close() {
	putBuffer(p.Data)
	p.Data = nil
}

// OutboundPacket is a UDP datagram to be sent via a Transport.
type OutboundPacket struct {
	Destination Endpoint
	Data        []byte
}

// Transport is a single-family (IPv4 or IPv6) UDP multicast socket.
type Transport interface {
	// Listen starts listening for UDP packets on the given interfaces. A
	// nil/empty ifaces joins the multicast group on every multicast-
	// capable interface.
	Listen(ifaces []net.Interface) error

	// Read reads the next packet from the transport.
	Read() (*InboundPacket, error)

	// Write sends a packet via the transport.
	Write(*OutboundPacket) error

	// Group returns the multicast group address for this transport.
	Group() *net.UDPAddr

	// Close closes the transport, unblocking any pending Read.
	Close() error
}

// multicastInterfaces returns every up, multicast-capable interface, used
// when a transport is not restricted to a specific one.
func multicastInterfaces() ([]net.Interface, error) {
	all, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	out := all[:0]
	for _, iface := range all {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagMulticast == 0 {
			continue
		}
		out = append(out, iface)
	}

	return out, nil
}
