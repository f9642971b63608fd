package wire

import "fmt"

// BufferType identifies which section of a Message a capacity error refers
// to, so that a caller using grow-and-retry parsing knows which backing
// slice to enlarge.
//
// See https://tools.ietf.org/html/rfc1035#section-4.1.1 for the section
// layout this mirrors (questions, answers, authorities, additionals).
type BufferType int

// The four record sections of a DNS message, plus BufferLabels for a label
// buffer. Name decoding appends to a growable slice, so no code in this
// package reports BufferLabels.
const (
	BufferQuestions BufferType = iota
	BufferAnswers
	BufferAuthorities
	BufferAdditionals
	BufferLabels
)

func (b BufferType) String() string {
	switch b {
	case BufferQuestions:
		return "questions"
	case BufferAnswers:
		return "answers"
	case BufferAuthorities:
		return "authorities"
	case BufferAdditionals:
		return "additionals"
	case BufferLabels:
		return "labels"
	default:
		return "unknown"
	}
}

// ErrNotEnoughReadBytes is returned when a decode operation runs past the
// end of the available input.
type ErrNotEnoughReadBytes struct {
	Wanted    int
	Available int
}

func (e *ErrNotEnoughReadBytes) Error() string {
	return fmt.Sprintf("not enough bytes to read: wanted %d, have %d", e.Wanted, e.Available)
}

// ErrNotEnoughWriteSpace is returned by a decode operation that writes into
// a fixed-capacity destination (e.g. a pooled slice) when that destination
// is too small. BufferType names which destination overflowed and
// TriedToWrite is the number of elements the caller should grow it to
// before retrying the same decode call.
//
// This is the mechanism that drives the responder's grow-and-retry parse
// loop (see responder.parse, which resizes and retries DecodeInto):
// rather than allocating internally, the codec reports the capacity it
// needed and lets the caller choose the allocation strategy.
//
// EncodeInto also returns it when the encoded message outgrows the
// caller's byte buffer. In that case BufferType is always
// BufferAdditionals, whichever section overflowed, and TriedToWrite is the
// number of bytes written when the overflow was detected, not the full
// encoded size.
type ErrNotEnoughWriteSpace struct {
	BufferType   BufferType
	TriedToWrite int
}

func (e *ErrNotEnoughWriteSpace) Error() string {
	return fmt.Sprintf("not enough space in %s buffer: need capacity for %d entries", e.BufferType, e.TriedToWrite)
}

// ErrInvalidRData is returned when a resource record's RDATA cannot be
// parsed as the shape its type requires (e.g. an SRV record shorter than
// 6 bytes).
type ErrInvalidRData struct {
	Type   uint16
	Reason string
}

func (e *ErrInvalidRData) Error() string {
	return fmt.Sprintf("invalid rdata for type %d: %s", e.Type, e.Reason)
}

// ErrLongDomain is returned when a domain name is too long: when parsing or
// encoding, if its uncompressed wire representation would exceed 255
// octets; when decoding, if the label bytes read while following its
// pointers exceed 255 octets (length octets are not counted there).
//
// See https://tools.ietf.org/html/rfc1035#section-3.1.
type ErrLongDomain struct {
	Length int
}

func (e *ErrLongDomain) Error() string {
	return fmt.Sprintf("domain name exceeds 255 octets (%d)", e.Length)
}

// ErrTooManyPointers is returned when following a name's compression
// pointers exceeds the bounded hop budget. This guards against pointer
// cycles and pointer chains in attacker-controlled packets.
type ErrTooManyPointers struct {
	Limit int
}

func (e *ErrTooManyPointers) Error() string {
	return fmt.Sprintf("name contains more than %d compression pointer hops", e.Limit)
}

// ErrUTF8 is returned when TXT record content cannot be interpreted as
// UTF-8 where UTF-8 is required by the caller.
type ErrUTF8 struct {
	Reason string
}

func (e *ErrUTF8) Error() string {
	return fmt.Sprintf("invalid utf-8 in TXT content: %s", e.Reason)
}
