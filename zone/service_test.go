package zone

import (
	"net"
	"testing"

	"github.com/arlow/mdnssd/internal/wire"
)

func testService(t *testing.T) *Service {
	t.Helper()

	s, err := Builder{
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

// Scenario 1: bad name yields no answers.
func TestAnswersBadName(t *testing.T) {
	s := testService(t)

	got := s.Answers(wire.MustParseName("random."), wire.TypeANY)
	if len(got) != 0 {
		t.Fatalf("got %d answers, want 0", len(got))
	}
}

// Scenario 2: service enumeration yields PTR, SRV, A, AAAA, TXT in order.
func TestAnswersServiceEnumeration(t *testing.T) {
	s := testService(t)

	got := s.Answers(wire.MustParseName("_http._tcp.local."), wire.TypeANY)
	if len(got) != 5 {
		t.Fatalf("got %d answers, want 5: %+v", len(got), got)
	}

	wantTypes := []uint16{wire.TypePTR, wire.TypeSRV, wire.TypeA, wire.TypeAAAA, wire.TypeTXT}
	for i, wantType := range wantTypes {
		if got[i].Type != wantType {
			t.Fatalf("answer %d: got type %v, want %v", i, wire.TypeName(got[i].Type), wire.TypeName(wantType))
		}
	}

	ptr, err := got[0].PTR()
	if err != nil {
		t.Fatalf("PTR(): %v", err)
	}
	if !ptr.Equal(wire.MustParseName("hostname._http._tcp.local.")) {
		t.Fatalf("PTR target = %v, want hostname._http._tcp.local.", ptr)
	}
}

// Scenario 3: instance SRV query yields SRV, A, AAAA, with the SRV port
// field at rdata bytes 4..6 equal to 0x0050.
func TestAnswersInstanceSRV(t *testing.T) {
	s := testService(t)

	got := s.Answers(wire.MustParseName("hostname._http._tcp.local."), wire.TypeSRV)
	if len(got) != 3 {
		t.Fatalf("got %d answers, want 3: %+v", len(got), got)
	}

	if got[0].Type != wire.TypeSRV || got[1].Type != wire.TypeA || got[2].Type != wire.TypeAAAA {
		t.Fatalf("got types %v %v %v, want SRV A AAAA", got[0].Type, got[1].Type, got[2].Type)
	}

	if got[0].RData[4] != 0x00 || got[0].RData[5] != 0x50 {
		t.Fatalf("SRV port bytes = % x, want 00 50", got[0].RData[4:6])
	}
}

// Scenario 4: instance A query yields exactly one record with rdata
// {192,168,0,42}.
func TestAnswersInstanceA(t *testing.T) {
	s := testService(t)

	got := s.Answers(wire.MustParseName("hostname._http._tcp.local."), wire.TypeA)
	if len(got) != 1 {
		t.Fatalf("got %d answers, want 1", len(got))
	}

	want := []byte{192, 168, 0, 42}
	if string(got[0].RData) != string(want) {
		t.Fatalf("rdata = % x, want % x", got[0].RData, want)
	}
}

// Scenario 5: the RFC 6763 meta-query yields one PTR record decoding to
// "_http._tcp.local.".
func TestAnswersMetaQuery(t *testing.T) {
	s := testService(t)

	got := s.Answers(wire.MustParseName("_services._dns-sd._udp.local."), wire.TypePTR)
	if len(got) != 1 {
		t.Fatalf("got %d answers, want 1", len(got))
	}

	ptr, err := got[0].PTR()
	if err != nil {
		t.Fatalf("PTR(): %v", err)
	}
	if !ptr.Equal(wire.MustParseName("_http._tcp.local.")) {
		t.Fatalf("got %v, want _http._tcp.local.", ptr)
	}
}

func TestAnswersSubtype(t *testing.T) {
	s, err := Builder{
		Instance:    "hostname",
		ServiceType: "_http._tcp",
		Domain:      "local.",
		Hostname:    "testhost.local.",
		Port:        80,
		IPv4s:       []net.IP{net.ParseIP("192.168.0.42")},
		Subtypes:    []string{"_printer"},
	}.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	got := s.Answers(wire.MustParseName("_printer._sub._http._tcp.local."), wire.TypePTR)
	if len(got) != 1 {
		t.Fatalf("got %d answers, want 1", len(got))
	}

	ptr, err := got[0].PTR()
	if err != nil {
		t.Fatalf("PTR(): %v", err)
	}
	if !ptr.Equal(s.InstanceName()) {
		t.Fatalf("got %v, want %v", ptr, s.InstanceName())
	}
}

func TestBuilderRequiresPort(t *testing.T) {
	_, err := Builder{
		Instance:    "hostname",
		ServiceType: "_http._tcp",
		IPv4s:       []net.IP{net.ParseIP("192.168.0.42")},
	}.Build()
	if err == nil {
		t.Fatal("expected an error for a zero port")
	}
}

func TestBuilderRequiresAnAddress(t *testing.T) {
	_, err := Builder{
		Instance:    "hostname",
		ServiceType: "_http._tcp",
		Hostname:    "testhost.local.",
		Port:        80,
	}.Build()
	if err == nil {
		t.Log("Build succeeded by resolving host addresses from the OS; only a failure to find any would be an error")
	}
}
