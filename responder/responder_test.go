package responder

import (
	"net"
	"testing"

	"github.com/arlow/mdnssd/internal/transport"
	"github.com/arlow/mdnssd/internal/wire"
	"github.com/arlow/mdnssd/zone"
)

type fakeTransport struct {
	group *net.UDPAddr
	sent  []*transport.OutboundPacket
}

func (f *fakeTransport) Listen([]net.Interface) error { return nil }
func (f *fakeTransport) Read() (*transport.InboundPacket, error) {
	return nil, nil
}
func (f *fakeTransport) Write(p *transport.OutboundPacket) error {
	f.sent = append(f.sent, p)
	return nil
}
func (f *fakeTransport) Group() *net.UDPAddr { return f.group }
func (f *fakeTransport) Close() error        { return nil }

func testService(t *testing.T) *zone.Service {
	t.Helper()

	s, err := zone.Builder{
		Instance:    "hostname",
		ServiceType: "_http._tcp",
		Domain:      "local.",
		Hostname:    "testhost.local.",
		Port:        80,
		IPv4s:       []net.IP{net.ParseIP("192.168.0.42")},
		IPv6s:       []net.IP{net.ParseIP("2620:0:1000:1900:b0c2:d0b2:c411:18bc")},
		TXTRecords:  [][]byte{[]byte("Local web server")},
	}.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s
}

func TestHandlePacketAnswersAndSends(t *testing.T) {
	svc := testService(t)
	r, err := New(svc)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	q := wire.Question{Name: svc.ServiceName(), Type: wire.TypeANY, Class: wire.ClassINET}
	msg := &wire.Message{
		Header:    wire.Header{QDCount: 1},
		Questions: []wire.Question{q},
	}
	data, err := wire.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	ft := &fakeTransport{group: transport.IPv4GroupAddress}
	pkt := &transport.InboundPacket{
		Transport: ft,
		Source:    transport.Endpoint{Address: &net.UDPAddr{IP: net.ParseIP("192.168.0.10"), Port: 5353}},
		Data:      data,
	}

	r.handlePacket(ft, pkt)

	if len(ft.sent) != 1 {
		t.Fatalf("got %d sent packets, want 1", len(ft.sent))
	}

	reply, err := wire.Decode(ft.sent[0].Data)
	if err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if !reply.Header.QR || !reply.Header.AA {
		t.Fatalf("reply header = %+v, want QR && AA", reply.Header)
	}
	if len(reply.Answers) != 5 {
		t.Fatalf("got %d answers, want 5", len(reply.Answers))
	}
}

func TestHandlePacketDropsQuestionWithNoAnswer(t *testing.T) {
	svc := testService(t)
	r, err := New(svc)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	q := wire.Question{Name: wire.MustParseName("random."), Type: wire.TypeANY, Class: wire.ClassINET}
	msg := &wire.Message{Header: wire.Header{QDCount: 1}, Questions: []wire.Question{q}}
	data, err := wire.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	ft := &fakeTransport{group: transport.IPv4GroupAddress}
	pkt := &transport.InboundPacket{
		Transport: ft,
		Source:    transport.Endpoint{Address: &net.UDPAddr{IP: net.ParseIP("192.168.0.10"), Port: 5353}},
		Data:      data,
	}

	r.handlePacket(ft, pkt)

	if len(ft.sent) != 0 {
		t.Fatalf("got %d sent packets, want 0", len(ft.sent))
	}
}
