package browser

import (
	"net"

	"github.com/dogmatiq/dodeca/logging"

	"github.com/arlow/mdnssd/internal/transport"
	"github.com/arlow/mdnssd/internal/wire"
)

// socket is the minimal send/receive surface a Lookup needs, satisfied
// both by a unicast ephemeral-port UDP socket and by a multicast
// transport.Transport — a Lookup drives both kinds through the same
// parseMessage decode, which grows section slices as needed rather than
// using the responder's grow-and-retry loop.
type socket interface {
	read() ([]byte, *net.UDPAddr, error)
	send(data []byte, dest *net.UDPAddr) error
	group() *net.UDPAddr
	close() error
}

// multicastSocket adapts a transport.Transport (already joined to the mDNS
// group) to the socket interface.
type multicastSocket struct {
	t transport.Transport
}

func (m *multicastSocket) read() ([]byte, *net.UDPAddr, error) {
	pkt, err := m.t.Read()
	if err != nil {
		return nil, nil, err
	}
	defer pkt.Close()

	data := append([]byte(nil), pkt.Data...)
	return data, pkt.Source.Address, nil
}

func (m *multicastSocket) send(data []byte, dest *net.UDPAddr) error {
	return m.t.Write(&transport.OutboundPacket{
		Destination: transport.Endpoint{Address: dest},
		Data:        data,
	})
}

func (m *multicastSocket) group() *net.UDPAddr { return m.t.Group() }
func (m *multicastSocket) close() error        { return m.t.Close() }

// unicastSocket is a plain ephemeral-port UDP socket, not joined to the
// multicast group, used to send queries and receive unicast replies.
type unicastSocket struct {
	conn      *net.UDPConn
	groupAddr *net.UDPAddr
	logger    logging.Logger
}

func newUnicastSocket(network string, groupAddr *net.UDPAddr, logger logging.Logger) (*unicastSocket, error) {
	conn, err := net.ListenUDP(network, nil)
	if err != nil {
		return nil, err
	}
	return &unicastSocket{conn: conn, groupAddr: groupAddr, logger: logger}, nil
}

func (u *unicastSocket) read() ([]byte, *net.UDPAddr, error) {
	buf := make([]byte, 9000)
	n, addr, err := u.conn.ReadFromUDP(buf)
	if err != nil {
		return nil, nil, err
	}
	return buf[:n], addr, nil
}

func (u *unicastSocket) send(data []byte, dest *net.UDPAddr) error {
	_, err := u.conn.WriteToUDP(data, dest)
	return err
}

func (u *unicastSocket) group() *net.UDPAddr { return u.groupAddr }
func (u *unicastSocket) close() error        { return u.conn.Close() }

// parseMessage decodes a received datagram into a heap-allocated Message.
// The browser does not reuse fixed-capacity buffers across packets the
// way the responder does, since there is no pool of pre-sized Messages to
// amortize here — every packet may describe a different number of
// records.
func parseMessage(data []byte) (*wire.Message, error) {
	return wire.Decode(data)
}
