package browser

import (
	"errors"
	"net"

	"github.com/arlow/mdnssd/internal/arpa"
	"github.com/arlow/mdnssd/internal/wire"
)

// ServiceEntry is a fully-resolved, deduplicated service instance surfaced
// to a Lookup's caller. It is the public, read-only view of an entryBuilder
// once that builder is complete.
type ServiceEntry struct {
	Name string
	Host string
	Port uint16
	IPv4 net.IP
	IPv6 net.IP
	Zone string // IPv6 scope_id, set when IPv6 is a link-local address.
	TXT  [][]byte
}

// entryBuilder accumulates the scattered records the browser receives for
// a single service instance name.
type entryBuilder struct {
	name string
	host string
	port uint16
	ipv4 net.IP
	ipv6 net.IP
	zone string
	txt  [][]byte
	has  bool // at least one field has been set; distinguishes "seen" from "zero value".

	queried bool
	sent    bool
}

// complete reports whether b has everything needed to form a ServiceEntry.
func (b *entryBuilder) complete() bool {
	return (b.ipv4 != nil || b.ipv6 != nil) && b.port != 0 && b.txt != nil
}

// TXTStrings interprets e's raw TXT character-strings as UTF-8 text (the
// common RFC 6763 §6.3 "key=value" convention), returning wire.ErrUTF8 if
// any character-string is not valid UTF-8.
func (e ServiceEntry) TXTStrings() ([]string, error) {
	return wire.TXTStringsOf(e.TXT)
}

// ReverseName returns the in-addr.arpa./ip6.arpa. name a caller can query
// to confirm a PTR record for e's address, preferring IPv4 when both
// families are present.
func (e ServiceEntry) ReverseName() (wire.Name, error) {
	if e.IPv4 != nil {
		return arpa.Name(e.IPv4)
	}
	if e.IPv6 != nil {
		return arpa.Name(e.IPv6)
	}
	return wire.Name{}, errors.New("browser: entry has no address")
}

func (b *entryBuilder) toEntry() ServiceEntry {
	return ServiceEntry{
		Name: b.name,
		Host: b.host,
		Port: b.port,
		IPv4: b.ipv4,
		IPv6: b.ipv6,
		Zone: b.zone,
		TXT:  b.txt,
	}
}

// cache is the per-Lookup aggregation engine: a map from canonical entry
// name to its builder, plus a single-hop alias table used to fold SRV
// targets onto the record they describe.
//
// It is accessed only from the Lookup's single aggregator goroutine that
// owns it, so no locking is needed.
type cache struct {
	entries map[string]*entryBuilder
	aliases map[string]string
}

func newCache() *cache {
	return &cache{
		entries: map[string]*entryBuilder{},
		aliases: map[string]string{},
	}
}

// canonicalize resolves name through the alias table. One hop is
// sufficient: the SRV handler only ever creates aliases whose target is
// itself a canonical (entries) key.
func (c *cache) canonicalize(name string) string {
	if canon, ok := c.aliases[name]; ok {
		return canon
	}
	return name
}

// ensure resolves name to its canonical entry, creating an empty builder
// if none exists yet, then applies mutate to it.
func (c *cache) ensure(name string, mutate func(*entryBuilder)) *entryBuilder {
	canon := c.canonicalize(name)

	b, ok := c.entries[canon]
	if !ok {
		b = &entryBuilder{name: canon}
		c.entries[canon] = b
	}

	mutate(b)
	b.has = true
	return b
}

// createAlias registers "to" as an alias for the canonical name "from":
// the record's own name is canonical, and its SRV target aliases to it.
func (c *cache) createAlias(from, to string) {
	if from == to {
		return
	}
	c.aliases[to] = from
}

// retryHint is a follow-up question the resolver should (re-)send for an
// entry that is not yet complete.
type retryHint struct {
	Name wire.Name
}

// drainReady yields every entry that is complete-and-not-yet-sent (marking
// it sent) and a retry hint for every entry that is incomplete and not yet
// queried (marking it queried).
func (c *cache) drainReady() (ready []ServiceEntry, hints []retryHint) {
	for _, b := range c.entries {
		switch {
		case b.complete() && !b.sent:
			b.sent = true
			ready = append(ready, b.toEntry())

		case !b.complete() && !b.queried:
			b.queried = true
			if n, err := wire.ParseName(b.name); err == nil {
				hints = append(hints, retryHint{Name: n})
			}
		}
	}
	return ready, hints
}
