// Package responder implements a multicast DNS responder: it listens on
// the IPv4/IPv6 mDNS multicast groups and answers incoming questions from
// a zone.Service.
//
// It is grounded on the mdns/responder package (the errgroup-per-family
// Run loop, the command/processor split), adapted to drive the
// grow-and-retry internal/wire codec and internal/endpoint bookkeeping
// instead of miekg/dns, and to answer from a single zone.Service rather
// than a general Answerer chain — this stack has no notion of "unique"
// vs "shared" record ownership, since conflict resolution is out of
// scope.
package responder

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/dogmatiq/dodeca/logging"
	"golang.org/x/sync/errgroup"

	"github.com/arlow/mdnssd/internal/endpoint"
	"github.com/arlow/mdnssd/internal/hostaddr"
	"github.com/arlow/mdnssd/internal/transport"
	"github.com/arlow/mdnssd/internal/wire"
	"github.com/arlow/mdnssd/zone"
)

// stackAllocLimit is the encoded-message size below which Responder
// reuses a small fixed buffer instead of letting Encode allocate.
const stackAllocLimit = 512

// Responder answers mDNS questions about a single zone.Service.
type Responder struct {
	service *zone.Service

	ifaces      []net.Interface
	disableIPv4 bool
	disableIPv6 bool
	logEmpty    bool
	logger      logging.Logger

	endpoint *endpoint.Endpoint

	shutdownOnce sync.Once
	done         chan struct{}
}

// New returns a Responder answering questions about service.
func New(service *zone.Service, options ...Option) (*Responder, error) {
	r := &Responder{
		service:  service,
		endpoint: endpoint.New(0),
		done:     make(chan struct{}),
	}

	for _, opt := range options {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	if r.disableIPv4 && r.disableIPv6 {
		return nil, errors.New("responder: both IPv4 and IPv6 are disabled")
	}

	hasIPv4, hasIPv6, err := hostaddr.Probe()
	if err != nil {
		return nil, fmt.Errorf("responder: probing host IP stacks: %w", err)
	}
	if !hasIPv4 {
		r.disableIPv4 = true
	}
	if !hasIPv6 {
		r.disableIPv6 = true
	}
	if r.disableIPv4 && r.disableIPv6 {
		return nil, errors.New("responder: host has neither a usable IPv4 nor IPv6 stack")
	}

	return r, nil
}

// Run processes mDNS packets until ctx is canceled or a fatal error
// occurs; it returns nil on a clean, context-driven shutdown.
func (r *Responder) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	if !r.disableIPv4 {
		t := &transport.IPv4Transport{Logger: r.logger}
		g.Go(func() error { return r.serve(ctx, t) })
	}

	if !r.disableIPv6 {
		t := &transport.IPv6Transport{Logger: r.logger}
		g.Go(func() error { return r.serve(ctx, t) })
	}

	go func() {
		<-r.done
		cancel()
	}()

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Shutdown stops all processor loops. It is idempotent; concurrent and
// repeated calls all return once the first call has taken effect.
func (r *Responder) Shutdown() {
	r.shutdownOnce.Do(func() {
		close(r.done)
	})
	r.endpoint.Close(func(format string, args ...interface{}) {
		logging.Log(r.logger, format, args...)
	})
}

// serve runs the per-family processor loop for t until ctx is canceled.
func (r *Responder) serve(ctx context.Context, t transport.Transport) error {
	if err := t.Listen(r.ifaces); err != nil {
		return err
	}
	defer t.Close()

	go func() {
		<-ctx.Done()
		_ = t.Close()
	}()

	for {
		pkt, err := t.Read()
		if err != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if isClosedError(err) {
				return nil
			}
			return err
		}

		r.handlePacket(t, pkt)
	}
}

// handlePacket parses one inbound packet, validates it against the
// endpoint's protocol rules, answers each question against the zone, and
// sends a reply for any question that produced an answer.
func (r *Responder) handlePacket(t transport.Transport, pkt *transport.InboundPacket) {
	defer pkt.Close()

	msg, err := r.parse(pkt.Data)
	if err != nil {
		logging.Debug(r.logger, "error parsing mDNS message from %s: %s", pkt.Source.Address, err)
		return
	}

	ch, err := r.endpoint.Accept()
	if err != nil {
		logging.Log(r.logger, "rejecting connection from %s: %s", pkt.Source.Address, err)
		return
	}
	defer r.endpoint.DrainConnection(ch)

	q, err := r.endpoint.Recv(ch, msg)
	if err != nil {
		// Truncated/non-query/non-success messages are dropped silently
		// per RFC 6762 §18 (no reply is sent), but logged.
		logging.Log(r.logger, "dropping message from %s: %s", pkt.Source.Address, err)
		return
	}
	defer r.endpoint.DrainQuery(ch, q.Handle)

	for _, question := range q.Questions() {
		a := r.service.Answers(question.Name, question.Type)
		add := r.service.Additionals(question.Name, question.Type)

		r.sendDecision(question, a, add)

		if len(a) == 0 && len(add) == 0 {
			if r.logEmpty {
				logging.Debug(r.logger, "no answer for %s %s", question.Name, wire.TypeName(question.Type))
			}
			continue
		}

		out := r.endpoint.Response(q.Handle, msg.Header.ID, question)
		r.reply(t, pkt, out, a, add)
	}
}

// sendDecision is a known-answer-aware logging hook. It is a no-op today
// (known-answer suppression remains a Non-goal); it exists as the single
// point a future implementation of that feature would need to extend.
func (r *Responder) sendDecision(wire.Question, []wire.ResourceRecord, []wire.ResourceRecord) {}

// parse decodes buf into a Message, growing and retrying the section
// buffers DecodeInto reports as undersized until decoding succeeds.
func (r *Responder) parse(buf []byte) (*wire.Message, error) {
	msg := &wire.Message{
		Questions:   make([]wire.Question, 0, 1),
		Answers:     make([]wire.ResourceRecord, 0, 4),
		Authorities: make([]wire.ResourceRecord, 0, 0),
		Additionals: make([]wire.ResourceRecord, 0, 4),
	}

	for {
		err := wire.DecodeInto(buf, msg)
		if err == nil {
			return msg, nil
		}

		wsErr, ok := err.(*wire.ErrNotEnoughWriteSpace)
		if !ok {
			return nil, err
		}

		switch wsErr.BufferType {
		case wire.BufferQuestions:
			msg.Questions = make([]wire.Question, 0, wsErr.TriedToWrite)
		case wire.BufferAnswers:
			msg.Answers = make([]wire.ResourceRecord, 0, wsErr.TriedToWrite)
		case wire.BufferAuthorities:
			msg.Authorities = make([]wire.ResourceRecord, 0, wsErr.TriedToWrite)
		case wire.BufferAdditionals:
			msg.Additionals = make([]wire.ResourceRecord, 0, wsErr.TriedToWrite)
		default:
			return nil, err
		}
	}
}

// reply builds and sends the response to a single question.
func (r *Responder) reply(t transport.Transport, in *transport.InboundPacket, out endpoint.Outgoing, answers, additionals []wire.ResourceRecord) {
	reply := &wire.Message{
		Header: wire.Header{
			ID:    out.ID,
			QR:    out.QR,
			AA:    out.AA,
			RCode: out.RCode,
		},
		Answers:     answers,
		Additionals: additionals,
	}

	var stackBuf [stackAllocLimit]byte
	data, err := wire.EncodeInto(stackBuf[:0], reply)
	if err != nil {
		data, err = wire.Encode(reply)
		if err != nil {
			logging.Log(r.logger, "error encoding mDNS response: %s", err)
			return
		}
	}

	dest := transport.Endpoint{InterfaceIndex: in.Source.InterfaceIndex, Address: in.Source.Address}
	if !out.Unicast {
		dest.Address = t.Group()
	}

	if err := t.Write(&transport.OutboundPacket{Destination: dest, Data: data}); err != nil {
		logging.Log(r.logger, "error sending mDNS response to %s: %s", dest.Address, err)
	}
}

func isClosedError(err error) bool {
	for {
		e, ok := err.(*net.OpError)
		if !ok {
			return false
		}
		if e.Err.Error() == "use of closed network connection" {
			return true
		}
		err = e.Err
	}
}
