// Package zone models a single advertised DNS-SD service instance — the
// set of records ("the zone") a responder answers queries against — and
// implements RFC 6763's answer-selection rules for it.
//
// It is grounded on dissolve/dnssd.Instance (PTR/SRV/TXT/A/AAAA record
// construction) and dnssd.Answerer (per-question-type answer selection),
// adapted from miekg/dns record types to this module's hand-written
// internal/wire codec.
package zone

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/arlow/mdnssd/internal/names"
	"github.com/arlow/mdnssd/internal/wire"
)

// DefaultTTL is the default TTL applied to every record of a Service that
// does not specify one explicitly.
//
// See https://tools.ietf.org/html/rfc6762#section-10.
const DefaultTTL = 120 * time.Second

// DefaultSRVPriority and DefaultSRVWeight are the RFC 2782 defaults used
// when a Service does not specify its own.
const (
	DefaultSRVPriority uint16 = 10
	DefaultSRVWeight   uint16 = 1
)

// Service is an immutable, advertisable DNS-SD service instance.
//
// It precomputes every record it can ever answer with at construction
// time (see Build), so that answering a query never allocates beyond the
// slice used to collect the result.
type Service struct {
	instance names.Host
	service  names.UDN
	domain   names.FQDN
	hostname names.FQDN
	subtypes []names.Label

	serviceAddr  wire.Name
	instanceAddr wire.Name
	enumAddr     wire.Name
	hostnameAddr wire.Name

	ipv4s []net.IP
	ipv6s []net.IP

	ttl uint32

	ptrEnumToService wire.ResourceRecord   // enum_addr -> PTR service_addr
	ptrServiceToInst wire.ResourceRecord   // service_addr -> PTR instance_addr
	subtypePTRs      []wire.ResourceRecord // "_sub" enum_addr -> PTR instance_addr, one per subtype
	srvRecord        wire.ResourceRecord
	txtRecord        wire.ResourceRecord
	aRecords         []wire.ResourceRecord
	aaaaRecords      []wire.ResourceRecord
}

// InstanceName returns the service's fully-qualified instance name, e.g.
// "hostname._http._tcp.local.".
func (s *Service) InstanceName() wire.Name {
	return s.instanceAddr
}

// ServiceName returns the service's fully-qualified service name, e.g.
// "_http._tcp.local.".
func (s *Service) ServiceName() wire.Name {
	return s.serviceAddr
}

// Hostname returns the service's target hostname, e.g. "testhost.local.".
func (s *Service) Hostname() wire.Name {
	return s.hostnameAddr
}

// Answers returns the records that answer question (qname, qtype) against
// this service. The result is deterministic for a fixed Service and
// question: it depends only on s and the question.
func (s *Service) Answers(qname wire.Name, qtype uint16) []wire.ResourceRecord {
	if sub, ok := s.subtypePTRFor(qname); ok {
		if qtype == wire.TypeANY || qtype == wire.TypePTR {
			return []wire.ResourceRecord{sub}
		}
		return nil
	}

	switch {
	case qname.Equal(s.enumAddr):
		if qtype == wire.TypeANY || qtype == wire.TypePTR {
			return []wire.ResourceRecord{s.ptrEnumToService}
		}

	case qname.Equal(s.serviceAddr):
		if qtype == wire.TypeANY || qtype == wire.TypePTR {
			out := []wire.ResourceRecord{s.ptrServiceToInst}
			return append(out, s.Answers(s.instanceAddr, wire.TypeANY)...)
		}

	case qname.Equal(s.instanceAddr):
		return s.instanceRecords(qtype)

	case qname.Equal(s.hostnameAddr):
		switch qtype {
		case wire.TypeA, wire.TypeAAAA:
			return s.instanceRecords(qtype)
		}
	}

	return nil
}

// Additionals returns supplementary records the responder may choose to
// include alongside Answers, per RFC 6763 §12's "SHOULD include" guidance.
//
// In this implementation Answers already folds that guidance directly into
// its own recursive expansion (see the service_addr and instance_addr
// cases above), so there is no disjoint set of extra records to compute;
// Additionals exists for symmetry with the wire format's distinct ANSWER/
// ADDITIONAL sections and as a hook for a future responder that wants to
// split them, but currently always returns nil. See DESIGN.md.
func (s *Service) Additionals(wire.Name, uint16) []wire.ResourceRecord {
	return nil
}

// instanceRecords implements the qname == instance_addr branch of
// answer selection, and is also reused for qname == hostname, which
// behaves identically for A/AAAA.
func (s *Service) instanceRecords(qtype uint16) []wire.ResourceRecord {
	switch qtype {
	case wire.TypeANY:
		out := s.srvExpansion()
		return append(out, s.txtRecord)

	case wire.TypeA:
		return append([]wire.ResourceRecord(nil), s.aRecords...)

	case wire.TypeAAAA:
		return append([]wire.ResourceRecord(nil), s.aaaaRecords...)

	case wire.TypeSRV:
		return s.srvExpansion()

	case wire.TypeTXT:
		return []wire.ResourceRecord{s.txtRecord}
	}

	return nil
}

// srvExpansion returns the SRV record followed by every A then every AAAA
// record for the instance.
func (s *Service) srvExpansion() []wire.ResourceRecord {
	out := make([]wire.ResourceRecord, 0, 1+len(s.aRecords)+len(s.aaaaRecords))
	out = append(out, s.srvRecord)
	out = append(out, s.aRecords...)
	out = append(out, s.aaaaRecords...)
	return out
}

// subtypePTRFor returns the precomputed PTR record for the "_sub" domain
// matching qname, if qname names one of the service's declared subtypes.
func (s *Service) subtypePTRFor(qname wire.Name) (wire.ResourceRecord, bool) {
	for i, sub := range s.subtypes {
		addr := subtypeEnumAddr(sub, s.service, s.domain)
		if qname.Equal(addr) {
			return s.subtypePTRs[i], true
		}
	}
	return wire.ResourceRecord{}, false
}

// subtypeEnumAddr returns "<subtype>._sub.<service>.<domain>.", the name
// queried to perform RFC 6763 §7.1 selective instance enumeration. The
// subtype label (e.g. "_printer") already carries its leading underscore.
func subtypeEnumAddr(sub names.Label, service names.UDN, domain names.FQDN) wire.Name {
	return wire.MustParseName(fmt.Sprintf("%s._sub.%s.%s", sub, service, domain))
}

// Validate returns an error describing why the service is misconfigured,
// or nil.
func (s *Service) Validate() error {
	if err := s.instance.Validate(); err != nil {
		return err
	}
	if err := s.service.Validate(); err != nil {
		return err
	}
	if err := s.domain.Validate(); err != nil {
		return err
	}
	if err := s.hostname.Validate(); err != nil {
		return err
	}
	if len(s.ipv4s) == 0 && len(s.ipv6s) == 0 {
		return errors.New("service must have at least one IPv4 or IPv6 address")
	}
	return nil
}
