package zone

import (
	"fmt"
	"net"
	"time"

	"github.com/arlow/mdnssd/internal/hostaddr"
	"github.com/arlow/mdnssd/internal/names"
	"github.com/arlow/mdnssd/internal/wire"
)

// Builder constructs an immutable Service.
//
// It is a plain struct with an explicit Build step, rather than the
// functional-options style used by Responder/Lookup, because every field
// here is a value the caller is describing (their service), not a
// behavioral knob — grounded on the dnssd.NewInstance constructor, which
// takes the same fields directly.
type Builder struct {
	// Instance is the unqualified instance name, e.g. "hostname".
	Instance string

	// ServiceType is the DNS-SD service type, e.g. "_http._tcp".
	ServiceType string

	// Domain is the domain the service is advertised in. Defaults to
	// "local.".
	Domain string

	// Hostname is the service's target FQDN, e.g. "testhost.local.". If
	// empty, the local host's own hostname is used.
	Hostname string

	// Port is the TCP/UDP port the service listens on. It must be
	// non-zero.
	Port uint16

	// IPv4s and IPv6s are the service's addresses. If both are empty they
	// are filled with the local host's own non-loopback interface
	// addresses (see internal/hostaddr.ResolveHost); Hostname is not looked
	// up. If that also yields nothing, Build fails.
	IPv4s []net.IP
	IPv6s []net.IP

	// TXTRecords are the service's TXT character-strings, in order. Use
	// this for raw (possibly non-key/value) TXT content. TXTPairs is a
	// convenience for the common "key=value" convention
	// (https://tools.ietf.org/html/rfc6763#section-6.3).
	TXTRecords [][]byte
	TXTPairs   map[string]string

	// Subtypes declares additional RFC 6763 §7.1 selective-enumeration
	// names ("<subtype>._sub.<service>.<domain>.", where a subtype label
	// such as "_printer" carries its own underscore) this instance answers
	// PTR/ANY queries under, besides its own service type.
	Subtypes []string

	// TTL is the TTL applied to every record. Defaults to DefaultTTL.
	TTL time.Duration

	// SRVPriority and SRVWeight populate the SRV record. Default to
	// DefaultSRVPriority and DefaultSRVWeight.
	SRVPriority uint16
	SRVWeight   uint16
}

// Build validates b and returns the resulting Service.
func (b Builder) Build() (*Service, error) {
	if b.Port == 0 {
		return nil, fmt.Errorf("zone: port must not be zero")
	}

	instance, err := names.ParseHost(b.Instance)
	if err != nil {
		return nil, fmt.Errorf("zone: invalid instance name: %w", err)
	}

	service, err := names.ParseUDN(b.ServiceType)
	if err != nil {
		return nil, fmt.Errorf("zone: invalid service type: %w", err)
	}

	domainStr := b.Domain
	if domainStr == "" {
		domainStr = "local."
	}
	domain, err := names.ParseFQDN(domainStr)
	if err != nil {
		return nil, fmt.Errorf("zone: invalid domain: %w", err)
	}

	hostnameStr := b.Hostname
	if hostnameStr == "" {
		h, err := hostaddr.Hostname()
		if err != nil {
			return nil, fmt.Errorf("zone: resolving local hostname: %w", err)
		}
		hostnameStr = h + "." + domain.String()
	}
	hostname, err := names.ParseFQDN(hostnameStr)
	if err != nil {
		return nil, fmt.Errorf("zone: invalid hostname: %w", err)
	}

	ipv4s := append([]net.IP(nil), b.IPv4s...)
	ipv6s := append([]net.IP(nil), b.IPv6s...)

	if len(ipv4s) == 0 && len(ipv6s) == 0 {
		v4, v6, err := hostaddr.ResolveHost()
		if err != nil {
			return nil, fmt.Errorf("zone: resolving addresses for %q: %w", hostname, err)
		}
		if len(v4) == 0 && len(v6) == 0 {
			return nil, fmt.Errorf("zone: no addresses found for hostname %q", hostname)
		}
		ipv4s, ipv6s = v4, v6
	}

	ttl := b.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	priority := b.SRVPriority
	if priority == 0 {
		priority = DefaultSRVPriority
	}

	weight := b.SRVWeight
	if weight == 0 {
		weight = DefaultSRVWeight
	}

	txtStrings := b.TXTRecords
	if len(b.TXTPairs) > 0 {
		for k, v := range b.TXTPairs {
			if v == "" {
				txtStrings = append(txtStrings, []byte(k))
			} else {
				txtStrings = append(txtStrings, []byte(k+"="+v))
			}
		}
	}

	subtypes := make([]names.Label, len(b.Subtypes))
	for i, s := range b.Subtypes {
		l, err := names.ParseLabel(s)
		if err != nil {
			return nil, fmt.Errorf("zone: invalid subtype %q: %w", s, err)
		}
		subtypes[i] = l
	}

	s := &Service{
		instance: instance,
		service:  service,
		domain:   domain,
		hostname: hostname,
		subtypes: subtypes,
		ipv4s:    ipv4s,
		ipv6s:    ipv6s,
		ttl:      uint32(ttl.Seconds()),
	}

	s.serviceAddr = wire.MustParseName(service.Qualify(domain).String())
	s.instanceAddr = wire.MustParseName(instance.Qualify(service.Qualify(domain)).String())
	s.enumAddr = wire.MustParseName("_services._dns-sd._udp." + domain.String())
	s.hostnameAddr = wire.MustParseName(hostname.String())

	if err := s.Validate(); err != nil {
		return nil, err
	}

	s.ptrEnumToService = wire.NewPTR(s.enumAddr, s.ttl, s.serviceAddr)
	s.ptrServiceToInst = wire.NewPTR(s.serviceAddr, s.ttl, s.instanceAddr)

	s.subtypePTRs = make([]wire.ResourceRecord, len(subtypes))
	for i, sub := range subtypes {
		addr := subtypeEnumAddr(sub, service, domain)
		s.subtypePTRs[i] = wire.NewPTR(addr, s.ttl, s.instanceAddr)
	}

	s.srvRecord = wire.NewSRV(s.instanceAddr, s.ttl, wire.SRVData{
		Priority: priority,
		Weight:   weight,
		Port:     b.Port,
		Target:   s.hostnameAddr,
	})

	txtRecord, err := wire.NewTXT(s.instanceAddr, s.ttl, txtStrings)
	if err != nil {
		return nil, fmt.Errorf("zone: encoding TXT record: %w", err)
	}
	s.txtRecord = txtRecord

	for _, ip := range ipv4s {
		s.aRecords = append(s.aRecords, wire.NewA(s.hostnameAddr, s.ttl, ip))
	}
	for _, ip := range ipv6s {
		s.aaaaRecords = append(s.aaaaRecords, wire.NewAAAA(s.hostnameAddr, s.ttl, ip))
	}

	return s, nil
}
