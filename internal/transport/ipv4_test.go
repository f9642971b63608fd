package transport

import (
	"net"
	"testing"
	"time"

	"github.com/dogmatiq/dodeca/logging"
)

func loopbackInterface(t *testing.T) net.Interface {
	t.Helper()

	ifaces, err := net.Interfaces()
	if err != nil {
		t.Fatalf("net.Interfaces: %v", err)
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 && iface.Flags&net.FlagMulticast != 0 {
			return iface
		}
	}

	t.Skip("no multicast-capable loopback interface available")
	return net.Interface{}
}

func TestIPv4TransportSendReceive(t *testing.T) {
	iface := loopbackInterface(t)

	rx := &IPv4Transport{Logger: logging.DiscardLogger}
	if err := rx.Listen([]net.Interface{iface}); err != nil {
		t.Fatalf("rx.Listen: %v", err)
	}
	defer rx.Close()

	tx := &IPv4Transport{Logger: logging.DiscardLogger}
	if err := tx.Listen([]net.Interface{iface}); err != nil {
		t.Fatalf("tx.Listen: %v", err)
	}
	defer tx.Close()

	msg := []byte("hello mdns")
	errCh := make(chan error, 1)
	go func() {
		errCh <- tx.Write(&OutboundPacket{
			Destination: Endpoint{InterfaceIndex: iface.Index, Address: IPv4GroupAddress},
			Data:        msg,
		})
	}()

	type result struct {
		pkt *InboundPacket
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		pkt, err := rx.Read()
		resultCh <- result{pkt, err}
	}()

	if err := <-errCh; err != nil {
		t.Fatalf("Write: %v", err)
	}

	select {
	case r := <-resultCh:
		if r.err != nil {
			t.Fatalf("Read: %v", r.err)
		}
		if string(r.pkt.Data) != string(msg) {
			t.Fatalf("got %q, want %q", r.pkt.Data, msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for loopback multicast packet")
	}
}
