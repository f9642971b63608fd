// Package browser implements the resolver side of the stack: it emits
// mDNS PTR queries for a DNS-SD service type and assembles the scattered
// PTR/SRV/TXT/A/AAAA responses into deduplicated ServiceEntry values.
//
// It is grounded on the mdns/responder package for its errgroup-supervised,
// context-cancelable task shape (Run/serve), adapted here to the
// query-then-listen-then-aggregate role instead of answer-then-reply, and
// driven by the hand-written internal/wire codec and the aggregation
// cache in cache.go.
package browser

import (
	"context"
	"errors"
	"net"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/arlow/mdnssd/internal/transport"
	"github.com/arlow/mdnssd/internal/wire"
)

// Canceller lets a caller stop a Lookup before its timeout elapses.
type Canceller struct {
	cancel context.CancelFunc
}

// Cancel stops the Lookup immediately.
func (c *Canceller) Cancel() {
	c.cancel()
}

// mergeRequest is a parsed datagram handed from a listener goroutine to
// the aggregator goroutine.
type mergeRequest struct {
	msg  *wire.Message
	from *net.UDPAddr
}

// Lookup starts browsing for instances of the configured service and
// returns a channel of ServiceEntry values, closed when the lookup's
// timeout elapses or its Canceller is used.
func Lookup(ctx context.Context, opts ...QueryOption) (<-chan ServiceEntry, *Canceller, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, nil, err
	}

	sockets, unicastSockets, err := openSockets(cfg)
	if err != nil {
		return nil, nil, err
	}

	qname, err := wire.ParseName(cfg.service + "." + cfg.domain)
	if err != nil {
		closeAll(sockets)
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)

	l := &lookup{
		cfg:            cfg,
		qname:          qname,
		sockets:        sockets,
		unicastSockets: unicastSockets,
		cache:          newCache(),
		retries:        map[string]int{},
		mergeCh:        make(chan mergeRequest, 16),
		resultCh:       make(chan ServiceEntry, cfg.capacity),
	}

	l.sendQuestion(l.qname, false)

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range sockets {
		s := s
		g.Go(func() error { return l.listen(gctx, s) })
	}
	g.Go(func() error { return l.aggregate(gctx) })

	// Closing the sockets unblocks listeners parked in read once the
	// lookup times out or is cancelled.
	go func() {
		<-gctx.Done()
		closeAll(sockets)
	}()

	go func() {
		g.Wait()
		closeAll(sockets)
		l.deliverWG.Wait()
		close(l.resultCh)
	}()

	return l.resultCh, &Canceller{cancel: cancel}, nil
}

// openSockets opens the unicast and multicast sockets for every family not
// disabled by cfg. A family is silently dropped if either of its sockets
// fails to bind; if both families end up disabled, it is an error.
func openSockets(cfg *config) (all []socket, unicast []*unicastSocket, err error) {
	type attempt struct {
		disabled  bool
		network   string
		groupAddr *net.UDPAddr
		iface     *net.Interface
		newMcast  func() transport.Transport
	}

	attempts := []attempt{
		{
			disabled:  cfg.disableIPv4,
			network:   "udp4",
			groupAddr: transport.IPv4GroupAddress,
			iface:     cfg.ipv4Interface,
			newMcast:  func() transport.Transport { return &transport.IPv4Transport{Logger: cfg.logger} },
		},
		{
			disabled:  cfg.disableIPv6,
			network:   "udp6",
			groupAddr: transport.IPv6GroupAddress,
			iface:     cfg.ipv6Interface,
			newMcast:  func() transport.Transport { return &transport.IPv6Transport{Logger: cfg.logger} },
		},
	}

	enabled := 0
	for _, a := range attempts {
		if a.disabled {
			continue
		}

		u, err := newUnicastSocket(a.network, a.groupAddr, cfg.logger)
		if err != nil {
			continue
		}

		mcast := a.newMcast()
		var ifaces []net.Interface
		if a.iface != nil {
			ifaces = []net.Interface{*a.iface}
		}
		if err := mcast.Listen(ifaces); err != nil {
			u.close()
			continue
		}

		all = append(all, u, &multicastSocket{t: mcast})
		unicast = append(unicast, u)
		enabled++
	}

	if enabled == 0 {
		return nil, nil, errors.New("browser: both IPv4 and IPv6 are disabled or unavailable")
	}

	return all, unicast, nil
}

func closeAll(sockets []socket) {
	for _, s := range sockets {
		_ = s.close()
	}
}

// lookup is the live state backing one Lookup call.
type lookup struct {
	cfg            *config
	qname          wire.Name
	sockets        []socket
	unicastSockets []*unicastSocket
	cache          *cache
	retries        map[string]int
	mergeCh        chan mergeRequest
	resultCh       chan ServiceEntry
	deliverWG      sync.WaitGroup
}

// listen reads datagrams from s, parses them, and forwards them to the
// aggregator until ctx is done.
func (l *lookup) listen(ctx context.Context, s socket) error {
	for {
		data, addr, err := s.read()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}

		msg, err := parseMessage(data)
		if err != nil {
			continue
		}

		select {
		case l.mergeCh <- mergeRequest{msg: msg, from: addr}:
		case <-ctx.Done():
			return nil
		}
	}
}

// aggregate owns the cache exclusively, serializing every mutation through
// mergeCh so no locking is needed.
func (l *lookup) aggregate(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case req := <-l.mergeCh:
			l.merge(req)
			l.emitReady()
		}
	}
}

// merge folds every answer/additional record of req into the cache.
func (l *lookup) merge(req mergeRequest) {
	records := append(append([]wire.ResourceRecord(nil), req.msg.Answers...), req.msg.Additionals...)

	for _, rr := range records {
		name := rr.Name.String()

		switch rr.Type {
		case wire.TypeA:
			ip, err := rr.A()
			if err != nil {
				continue
			}
			l.cache.ensure(name, func(b *entryBuilder) { b.ipv4 = ip })

		case wire.TypeAAAA:
			ip, err := rr.AAAA()
			if err != nil {
				continue
			}
			zone := ""
			if ip.IsLinkLocalUnicast() && req.from != nil {
				zone = req.from.Zone
			}
			l.cache.ensure(name, func(b *entryBuilder) {
				b.ipv6 = ip
				if zone != "" {
					b.zone = zone
				}
			})

		case wire.TypePTR:
			target, err := rr.PTR()
			if err != nil {
				continue
			}
			l.cache.ensure(target.String(), func(*entryBuilder) {})

		case wire.TypeTXT:
			txt, err := rr.TXT()
			if err != nil {
				continue
			}
			l.cache.ensure(name, func(b *entryBuilder) { b.txt = txt })

		case wire.TypeSRV:
			srv, err := rr.SRV()
			if err != nil {
				continue
			}
			target := srv.Target.String()
			if !srv.Target.Equal(rr.Name) {
				l.cache.createAlias(name, target)
			}
			l.cache.ensure(name, func(b *entryBuilder) {
				b.host = target
				b.port = srv.Port
			})
		}
	}
}

// emitReady drains the cache and forwards completed entries to the
// caller, resending retry-hint questions for incomplete ones.
func (l *lookup) emitReady() {
	ready, hints := l.cache.drainReady()

	for _, e := range ready {
		l.deliver(e)
	}

	for _, h := range hints {
		key := h.Name.String()
		if l.retries[key] >= MaxRetries {
			continue
		}
		l.retries[key]++
		l.sendQuestion(h.Name, true)
	}
}

// deliver forwards e to the caller's channel. With an explicit bounded
// capacity, a full channel drops e and clears its entry's sent latch, so
// the next drainReady offers it again. The default,
// unbounded case never drops: the send happens on its own goroutine so a
// slow consumer cannot stall the aggregator. deliverWG tracks these
// goroutines so Lookup only closes resultCh once they have all sent —
// otherwise one could still be parked on the send when resultCh closes
// and panic.
func (l *lookup) deliver(e ServiceEntry) {
	if l.cfg.capacity > 0 {
		select {
		case l.resultCh <- e:
		default:
			if b, ok := l.cache.entries[e.Name]; ok {
				b.sent = false
			}
		}
		return
	}

	l.deliverWG.Add(1)
	go func() {
		defer l.deliverWG.Done()
		l.resultCh <- e
	}()
}

// sendQuestion composes and sends a single PTR question for name, via the
// unicast socket of every enabled family, to that family's multicast
// group.
func (l *lookup) sendQuestion(name wire.Name, retry bool) {
	q := wire.Question{Name: name, Type: wire.TypePTR, Class: wire.ClassINET}
	if l.cfg.wantUnicastResponse {
		q = q.WithUnicastBit()
	}

	msg := &wire.Message{
		Header:    wire.Header{QDCount: 1},
		Questions: []wire.Question{q},
	}

	data, err := wire.Encode(msg)
	if err != nil {
		return
	}

	for _, s := range l.unicastSockets {
		_ = s.send(data, s.group())
	}
}
