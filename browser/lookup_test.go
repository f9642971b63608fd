package browser

import (
	"net"
	"testing"

	"github.com/arlow/mdnssd/internal/wire"
	"github.com/arlow/mdnssd/zone"
)

// testAdvertisedService mirrors the scenario used throughout the zone and
// responder tests, under the service type "_foobar._tcp": instance
// "hostname", hostname "testhost.local.", one IPv4 and one IPv6 address,
// and a single TXT string.
func testAdvertisedService(t *testing.T) *zone.Service {
	t.Helper()

	svc, err := zone.Builder{
		Instance:    "hostname",
		ServiceType: "_foobar._tcp",
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
	return svc
}

// TestLookupMergeAssemblesServiceEntryFromScatteredRecords is the in-process
// counterpart of the responder+resolver loopback scenario: instead of
// driving it over real multicast sockets (flaky in a sandboxed test
// environment and with no teacher precedent for a live responder/resolver
// test), it feeds the records a responder would actually produce for an
// ANY query against the service's instance name directly into merge, the
// same entry point a listener goroutine uses for a real datagram.
func TestLookupMergeAssemblesServiceEntryFromScatteredRecords(t *testing.T) {
	svc := testAdvertisedService(t)

	answers := svc.Answers(svc.InstanceName(), wire.TypeANY)
	if len(answers) == 0 {
		t.Fatal("service produced no answers for its own instance ANY query")
	}

	l := &lookup{cache: newCache(), retries: map[string]int{}}
	l.merge(mergeRequest{msg: &wire.Message{Answers: answers}})

	ready, hints := l.cache.drainReady()
	if len(hints) != 0 {
		t.Fatalf("got %d retry hints, want 0: %+v", len(hints), hints)
	}
	if len(ready) != 1 {
		t.Fatalf("got %d ready entries, want 1", len(ready))
	}

	e := ready[0]
	if got, want := e.Name, "hostname._foobar._tcp.local."; got != want {
		t.Fatalf("Name = %q, want %q", got, want)
	}
	if got, want := e.Host, "testhost.local."; got != want {
		t.Fatalf("Host = %q, want %q", got, want)
	}
	if e.Port != 80 {
		t.Fatalf("Port = %d, want 80", e.Port)
	}
	if e.IPv4 == nil || !e.IPv4.Equal(net.ParseIP("192.168.0.42")) {
		t.Fatalf("IPv4 = %v, want 192.168.0.42", e.IPv4)
	}
	if e.IPv6 == nil || !e.IPv6.Equal(net.ParseIP("2620:0:1000:1900:b0c2:d0b2:c411:18bc")) {
		t.Fatalf("IPv6 = %v, want 2620:0:1000:1900:b0c2:d0b2:c411:18bc", e.IPv6)
	}
	if len(e.TXT) != 1 || string(e.TXT[0]) != "Local web server" {
		t.Fatalf("TXT = %q, want [\"Local web server\"]", e.TXT)
	}
}

// TestLookupMergeFoldsSRVTargetAliasAcrossDatagrams exercises the split
// that a real over-the-wire exchange actually produces: the SRV/TXT pair
// arrives in the service-enumeration reply, and the A/AAAA addresses
// arrive afterwards under the hostname rather than the instance name, in
// a separate datagram.
func TestLookupMergeFoldsSRVTargetAliasAcrossDatagrams(t *testing.T) {
	svc := testAdvertisedService(t)

	// only the SRV record itself; the rest of the SRV expansion is the
	// A/AAAA records that arrive in the second datagram.
	srvAndTXT := svc.Answers(svc.InstanceName(), wire.TypeSRV)[:1]
	hostAddrs := append(
		svc.Answers(svc.Hostname(), wire.TypeA),
		svc.Answers(svc.Hostname(), wire.TypeAAAA)...,
	)
	txt := svc.Answers(svc.InstanceName(), wire.TypeTXT)
	srvAndTXT = append(srvAndTXT, txt...)

	l := &lookup{cache: newCache(), retries: map[string]int{}}

	l.merge(mergeRequest{msg: &wire.Message{Answers: srvAndTXT}})
	if _, hints := l.cache.drainReady(); len(hints) == 0 {
		t.Fatal("expected a retry hint before the address records arrive")
	}

	l.merge(mergeRequest{msg: &wire.Message{Answers: hostAddrs}})

	ready, _ := l.cache.drainReady()
	if len(ready) != 1 {
		t.Fatalf("got %d ready entries after both datagrams, want 1", len(ready))
	}
	if got, want := ready[0].Name, svc.InstanceName().String(); got != want {
		t.Fatalf("Name = %q, want %q (SRV target alias did not fold onto the instance entry)", got, want)
	}
	if ready[0].IPv4 == nil || ready[0].IPv6 == nil {
		t.Fatalf("entry missing addresses after alias fold: %+v", ready[0])
	}
}
