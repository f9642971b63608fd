// Package hostaddr is the stack's one OS integration point for acquiring a
// host's own addresses: the hostname and address lookups that the zone
// builder relies on to fill in a service's own hostname and addresses when
// none are supplied explicitly, and the IPv4/IPv6 stack probe used by the
// responder.
//
// It is deliberately thin — a couple of net package calls — because the
// protocol engine (wire/zone/endpoint/responder/browser) never needs more
// than "what are my addresses", and the equivalent glue
// (mdns.NewLocalResolver) is similarly small.
package hostaddr

import (
	"fmt"
	"net"
	"os"
)

// ResolveHost returns the non-loopback IPv4 and IPv6 addresses configured
// on the local host. It is used by zone.Builder to fill in a Service's
// addresses when none are supplied explicitly.
func ResolveHost() (ipv4, ipv6 []net.IP, err error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, nil, fmt.Errorf("enumerating network interfaces: %w", err)
	}

	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, a := range addrs {
			ipNet, ok := a.(*net.IPNet)
			if !ok || ipNet.IP.IsLoopback() {
				continue
			}

			if v4 := ipNet.IP.To4(); v4 != nil {
				ipv4 = append(ipv4, v4)
			} else {
				ipv6 = append(ipv6, ipNet.IP)
			}
		}
	}

	return ipv4, ipv6, nil
}

// Probe reports whether the host has at least one usable IPv4 and/or IPv6
// stack, used by responder.New to decide which transports to open.
func Probe() (hasIPv4, hasIPv6 bool, err error) {
	v4, v6, err := ResolveHost()
	if err != nil {
		return false, false, err
	}
	return len(v4) > 0, len(v6) > 0, nil
}

// Hostname returns the local host's configured hostname as the OS reports
// it, without a trailing dot.
func Hostname() (string, error) {
	return os.Hostname()
}
