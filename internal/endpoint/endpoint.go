// Package endpoint tracks the responder's logical "connections" (one per
// peer exchange) and the queries within each, enforcing the mDNS
// protocol-level rejection rules (RFC 6762 §18) before a message's
// questions are ever handed to the zone for answering.
//
// It is grounded on the bookkeeping performed inline by
// responder.handleQuery/validateQuery (src/dissolve/mdns/responder/query.go),
// pulled out into its own type so the responder's processor loop stays a
// thin orchestrator over accept/recv/response/drain.
package endpoint

import (
	"errors"
	"fmt"
	"sync"

	"github.com/arlow/mdnssd/internal/wire"
)

// Errors returned by Endpoint methods.
var (
	ErrAtCapacity         = errors.New("endpoint: connection pool is at capacity")
	ErrConnectionNotFound = errors.New("endpoint: connection not found")
	ErrQueryNotFound      = errors.New("endpoint: query not found")
)

// ProtocolError is returned by Recv when a message violates one of the
// mDNS query rules in RFC 6762 §18.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return "endpoint: " + e.Reason
}

// invalidOpcode, invalidResponseCode and truncatedQuery build the three
// rejection reasons Recv can report, per RFC 6762 §18.3, §18.11, §18.5.
func invalidOpcode(opcode uint16) error {
	return &ProtocolError{Reason: fmt.Sprintf("OPCODE must be zero (query), got %d", opcode)}
}

func invalidResponseCode(rcode uint16) error {
	return &ProtocolError{Reason: fmt.Sprintf("RCODE must be zero, got %d", rcode)}
}

func truncatedQuery() error {
	return &ProtocolError{Reason: "TC bit must be zero; truncated known-answer continuation is not supported"}
}

// ConnectionHandle identifies a reserved connection slot.
type ConnectionHandle uint64

// QueryHandle identifies a reserved query slot within a connection.
type QueryHandle uint64

// Query is an accepted, validated incoming message along with the handle
// reserved for it.
type Query struct {
	Handle     QueryHandle
	Connection ConnectionHandle
	Message    *wire.Message
}

// Questions returns the accepted message's question section.
func (q *Query) Questions() []wire.Question {
	return q.Message.Questions
}

// Outgoing is the envelope computed by Response: the id and flags a reply
// message should use.
type Outgoing struct {
	ID      uint16
	Unicast bool
	QR      bool
	AA      bool
	RCode   uint16
}

type connection struct {
	queries map[QueryHandle]struct{}
}

// Endpoint is a bounded pool of connections, each a pool of in-flight
// queries. A zero Endpoint is not usable; use New.
type Endpoint struct {
	maxConnections int

	mu          sync.Mutex
	connections map[ConnectionHandle]*connection
	nextConn    ConnectionHandle
	nextQuery   QueryHandle
	closed      bool
}

// New returns an Endpoint that admits at most maxConnections concurrent
// connections. maxConnections <= 0 means unbounded.
func New(maxConnections int) *Endpoint {
	return &Endpoint{
		maxConnections: maxConnections,
		connections:    map[ConnectionHandle]*connection{},
	}
}

// Accept reserves a connection slot and returns its handle.
func (e *Endpoint) Accept() (ConnectionHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.maxConnections > 0 && len(e.connections) >= e.maxConnections {
		return 0, ErrAtCapacity
	}

	e.nextConn++
	ch := e.nextConn
	e.connections[ch] = &connection{queries: map[QueryHandle]struct{}{}}
	return ch, nil
}

// Recv validates msg as an mDNS query per RFC 6762 §18 and, if accepted,
// reserves a query slot for it under ch.
func (e *Endpoint) Recv(ch ConnectionHandle, msg *wire.Message) (*Query, error) {
	if msg.Header.Opcode != wire.OpcodeQuery {
		return nil, invalidOpcode(msg.Header.Opcode)
	}
	if msg.Header.RCode != wire.RCodeSuccess {
		return nil, invalidResponseCode(msg.Header.RCode)
	}
	if msg.Header.TC {
		return nil, truncatedQuery()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.connections[ch]
	if !ok {
		return nil, ErrConnectionNotFound
	}

	e.nextQuery++
	qh := e.nextQuery
	c.queries[qh] = struct{}{}

	return &Query{Handle: qh, Connection: ch, Message: msg}, nil
}

// Response computes the envelope a reply to question should use.
//
// The reply ID is the original message ID when the querier requested a
// unicast response (the QU bit), and zero otherwise, per
// https://tools.ietf.org/html/rfc6762#section-18.1.
func (e *Endpoint) Response(qh QueryHandle, messageID uint16, question wire.Question) Outgoing {
	unicast := question.WantsUnicastResponse()

	id := uint16(0)
	if unicast {
		id = messageID
	}

	return Outgoing{
		ID:      id,
		Unicast: unicast,
		QR:      true,
		AA:      true,
		RCode:   wire.RCodeSuccess,
	}
}

// DrainQuery releases the slot reserved for qh under ch.
func (e *Endpoint) DrainQuery(ch ConnectionHandle, qh QueryHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.connections[ch]
	if !ok {
		return ErrConnectionNotFound
	}

	if _, ok := c.queries[qh]; !ok {
		return ErrQueryNotFound
	}

	delete(c.queries, qh)
	return nil
}

// DrainConnection releases the connection slot for ch.
func (e *Endpoint) DrainConnection(ch ConnectionHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.connections[ch]; !ok {
		return ErrConnectionNotFound
	}

	delete(e.connections, ch)
	return nil
}

// Close releases all resources held by the endpoint. It reports (via the
// supplied logf, which may be nil) every connection that still has
// outstanding queries at close time — this indicates a bookkeeping bug in
// the caller, not a runtime error, so Close never fails because of it.
func (e *Endpoint) Close(logf func(format string, args ...interface{})) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true

	if logf == nil {
		return
	}

	for ch, c := range e.connections {
		if len(c.queries) > 0 {
			logf("endpoint: connection %d closed with %d outstanding quer(y/ies)", ch, len(c.queries))
		}
	}
}
