package responder

import (
	"net"

	"github.com/dogmatiq/dodeca/logging"
)

// Option applies an option to a Responder created by New.
type Option func(*Responder) error

// UseLogger sets the logger used by the responder.
func UseLogger(l logging.Logger) Option {
	return func(r *Responder) error {
		r.logger = l
		return nil
	}
}

// UseInterfaces restricts the responder to the given network interfaces.
// If this option is not provided, the responder joins the mDNS multicast
// group on every multicast-capable interface.
func UseInterfaces(ifaces ...net.Interface) Option {
	return func(r *Responder) error {
		r.ifaces = ifaces
		return nil
	}
}

// LogEmptyResponses causes the responder to log a debug trace whenever a
// question has no answer.
func LogEmptyResponses(r *Responder) error {
	r.logEmpty = true
	return nil
}

// DisableIPv4 prevents the responder from listening for IPv4 messages.
func DisableIPv4(r *Responder) error {
	r.disableIPv4 = true
	return nil
}

// DisableIPv6 prevents the responder from listening for IPv6 messages.
func DisableIPv6(r *Responder) error {
	r.disableIPv6 = true
	return nil
}
