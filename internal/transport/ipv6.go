package transport

import (
	"context"
	"fmt"
	"net"

	"github.com/dogmatiq/dodeca/logging"
	ipvx "golang.org/x/net/ipv6"
)

var (
	// IPv6Group is the multicast group used for mDNS over IPv6.
	//
	// See https://tools.ietf.org/html/rfc6762#section-3.
	IPv6Group = net.ParseIP("ff02::fb")

	// IPv6GroupAddress is the address mDNS packets are sent to over IPv6.
	IPv6GroupAddress = &net.UDPAddr{IP: IPv6Group, Port: Port}
)

// IPv6Transport is an IPv6 UDP multicast transport bound to port 5353.
type IPv6Transport struct {
	Logger logging.Logger

	conn net.PacketConn
	pc   *ipvx.PacketConn
}

// Listen binds the transport and joins the mDNS multicast group on ifaces
// (or every multicast-capable interface, if ifaces is empty).
func (t *IPv6Transport) Listen(ifaces []net.Interface) error {
	addr := fmt.Sprintf("[::]:%d", Port)

	lc := net.ListenConfig{Control: reusePortControl}
	conn, err := lc.ListenPacket(context.Background(), "udp6", addr)
	if err != nil {
		logListenError(t.Logger, IPv6GroupAddress, err)
		return err
	}

	t.conn = conn
	t.pc = ipvx.NewPacketConn(conn)
	_ = t.pc.SetControlMessage(ipvx.FlagInterface, true)

	if len(ifaces) == 0 {
		ifaces, err = multicastInterfaces()
		if err != nil {
			t.pc.Close()
			return err
		}
	}

	joined := make([]net.Interface, 0, len(ifaces))
	for _, iface := range ifaces {
		iface := iface
		if err := t.pc.JoinGroup(&iface, &net.UDPAddr{IP: IPv6Group}); err != nil {
			logJoinError(t.Logger, IPv6Group, iface, err)
			continue
		}
		joined = append(joined, iface)
	}

	if len(joined) == 0 {
		t.pc.Close()
		return fmt.Errorf("transport: unable to join the %s multicast group on any interface", IPv6Group)
	}

	logListening(t.Logger, IPv6GroupAddress, joined)
	return nil
}

// Read reads the next packet from the transport.
func (t *IPv6Transport) Read() (*InboundPacket, error) {
	buf := getBuffer()

	n, cm, src, err := t.pc.ReadFrom(buf)
	if err != nil {
		putBuffer(buf)
		logReadError(t.Logger, t.Group(), err)
		return nil, err
	}

	ifIndex := 0
	if cm != nil {
		ifIndex = cm.IfIndex
	}

	return &InboundPacket{
		Transport: t,
		Source:    Endpoint{InterfaceIndex: ifIndex, Address: src.(*net.UDPAddr)},
		Data:      buf[:n],
	}, nil
}

// Write sends a packet via the transport.
func (t *IPv6Transport) Write(p *OutboundPacket) error {
	_, err := t.pc.WriteTo(p.Data, &ipvx.ControlMessage{IfIndex: p.Destination.InterfaceIndex}, p.Destination.Address)
	if err != nil {
		logWriteError(t.Logger, p.Destination.Address, t.Group(), err)
	}
	return err
}

// Group returns the IPv6 multicast group address.
func (t *IPv6Transport) Group() *net.UDPAddr {
	return IPv6GroupAddress
}

// Close closes the transport.
func (t *IPv6Transport) Close() error {
	return t.pc.Close()
}
