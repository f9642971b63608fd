package browser

import (
	"errors"
	"net"
	"time"

	"github.com/dogmatiq/dodeca/logging"
)

// DefaultDomain and DefaultTimeout are the defaults applied when a Lookup
// does not specify its own.
const (
	DefaultDomain  = "local."
	DefaultTimeout = time.Second
)

// MaxRetries bounds how many times an incomplete entry's retry hint is
// resent per Lookup, so a name that never completes doesn't generate
// unbounded traffic for long-running lookups.
const MaxRetries = 3

// config is the resolved set of query parameters for a single Lookup.
type config struct {
	service             string
	domain              string
	timeout             time.Duration
	ipv4Interface       *net.Interface
	ipv6Interface       *net.Interface
	wantUnicastResponse bool
	disableIPv4         bool
	disableIPv6         bool
	capacity            int // 0 means unbounded
	logger              logging.Logger
}

// QueryOption configures a Lookup.
type QueryOption func(*config) error

// WithService sets the DNS-SD service type to browse for, e.g. "_http._tcp".
func WithService(service string) QueryOption {
	return func(c *config) error {
		if service == "" {
			return errors.New("browser: service must not be empty")
		}
		c.service = service
		return nil
	}
}

// WithDomain overrides the domain a Lookup browses in. Defaults to "local.".
func WithDomain(domain string) QueryOption {
	return func(c *config) error {
		c.domain = domain
		return nil
	}
}

// WithTimeout overrides how long a Lookup runs before closing its result
// channel. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) QueryOption {
	return func(c *config) error {
		c.timeout = d
		return nil
	}
}

// WithIPv4Interface restricts IPv4 queries to a specific interface.
func WithIPv4Interface(iface net.Interface) QueryOption {
	return func(c *config) error {
		c.ipv4Interface = &iface
		return nil
	}
}

// WithIPv6Interface restricts IPv6 queries to a specific interface.
func WithIPv6Interface(iface net.Interface) QueryOption {
	return func(c *config) error {
		c.ipv6Interface = &iface
		return nil
	}
}

// WantUnicastResponse sets the QU bit on emitted questions, asking
// responders to reply via unicast rather than multicast.
func WantUnicastResponse(c *config) error {
	c.wantUnicastResponse = true
	return nil
}

// DisableIPv4 prevents the Lookup from querying over IPv4.
func DisableIPv4(c *config) error {
	c.disableIPv4 = true
	return nil
}

// DisableIPv6 prevents the Lookup from querying over IPv6.
func DisableIPv6(c *config) error {
	c.disableIPv6 = true
	return nil
}

// WithCapacity bounds the result channel's buffer. A full channel causes
// the Lookup to drop (not block on) a ready entry; it is re-offered after
// the next received packet, since it has not yet been sent. The default
// (0, or never calling this option) is unbounded.
func WithCapacity(n int) QueryOption {
	return func(c *config) error {
		c.capacity = n
		return nil
	}
}

// UseLogger sets the logger used by the Lookup.
func UseLogger(l logging.Logger) QueryOption {
	return func(c *config) error {
		c.logger = l
		return nil
	}
}

func newConfig(opts []QueryOption) (*config, error) {
	c := &config{
		domain:  DefaultDomain,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.service == "" {
		return nil, errors.New("browser: WithService is required")
	}
	if c.disableIPv4 && c.disableIPv6 {
		return nil, errors.New("browser: both IPv4 and IPv6 are disabled")
	}

	return c, nil
}
