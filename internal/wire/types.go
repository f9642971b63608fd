package wire

import "strconv"

// Resource record types used by the mDNS/DNS-SD subset of RFC 1035.
//
// See https://tools.ietf.org/html/rfc6762#section-4 and
// https://tools.ietf.org/html/rfc1035#section-3.2.2.
const (
	TypeA    uint16 = 1
	TypePTR  uint16 = 12
	TypeTXT  uint16 = 16
	TypeAAAA uint16 = 28 // https://tools.ietf.org/html/rfc3596#section-2.1
	TypeSRV  uint16 = 33 // https://tools.ietf.org/html/rfc2782
	TypeANY  uint16 = 255
)

// ClassINET is the only record class this stack understands.
//
// See https://tools.ietf.org/html/rfc1035#section-3.2.4.
const ClassINET uint16 = 1

// classTopBit is the top bit of a 16-bit class field, which mDNS repurposes
// differently in different sections of the same message:
//
//   - on a resource record (responses), it is the "cache-flush" bit
//     (https://tools.ietf.org/html/rfc6762#section-10.2).
//   - on a question, it is the "unicast-response-preferred" bit, aka the
//     QU bit (https://tools.ietf.org/html/rfc6762#section-5.4).
//
// This package only needs the question-side interpretation; see
// Question.WantsUnicastResponse.
const classTopBit uint16 = 1 << 15

// Opcode values. mDNS only ever uses OpcodeQuery.
const (
	OpcodeQuery uint16 = 0
)

// Response codes. mDNS only ever uses RCodeSuccess.
const (
	RCodeSuccess uint16 = 0
)

// TypeName returns a human-readable name for a record/question type, for
// use in logging; unrecognized types are rendered numerically.
func TypeName(t uint16) string {
	switch t {
	case TypeA:
		return "A"
	case TypeAAAA:
		return "AAAA"
	case TypePTR:
		return "PTR"
	case TypeSRV:
		return "SRV"
	case TypeTXT:
		return "TXT"
	case TypeANY:
		return "ANY"
	default:
		return "TYPE" + strconv.Itoa(int(t))
	}
}
