package wire

import (
	"fmt"
	"net"
	"unicode/utf8"
)

// Question is a single entry in a message's question section.
//
// Class's top bit is repurposed by RFC 6762 §5.4 as the "QU bit": a hint
// that the querier would prefer a unicast response. EffectiveClass strips
// that bit; WantsUnicastResponse reads it.
type Question struct {
	Name  Name
	Type  uint16
	Class uint16
}

// WantsUnicastResponse reports whether the QU bit is set.
//
// See https://tools.ietf.org/html/rfc6762#section-5.4.
func (q Question) WantsUnicastResponse() bool {
	return q.Class&classTopBit != 0
}

// EffectiveClass returns q.Class with the QU bit masked off. In this stack
// it is always ClassINET.
func (q Question) EffectiveClass() uint16 {
	return q.Class &^ classTopBit
}

// WithUnicastBit returns a copy of q with the QU bit set.
func (q Question) WithUnicastBit() Question {
	q.Class |= classTopBit
	return q
}

// ResourceRecord is a single resource record: its owner name, type, class,
// TTL, and already-encoded RDATA. Typed accessors below parse the RDATA on
// demand; they never need access to the rest of the message because RDATA
// is always stored in a self-contained (name-decompressed) form — see
// decodeRR.
type ResourceRecord struct {
	Name  Name
	Type  uint16
	Class uint16
	TTL   uint32
	RData []byte
}

// NewA returns an A record.
func NewA(name Name, ttl uint32, ip net.IP) ResourceRecord {
	return ResourceRecord{Name: name, Type: TypeA, Class: ClassINET, TTL: ttl, RData: encodeA(ip)}
}

// NewAAAA returns an AAAA record.
func NewAAAA(name Name, ttl uint32, ip net.IP) ResourceRecord {
	return ResourceRecord{Name: name, Type: TypeAAAA, Class: ClassINET, TTL: ttl, RData: encodeAAAA(ip)}
}

// NewPTR returns a PTR record.
func NewPTR(name Name, ttl uint32, target Name) ResourceRecord {
	return ResourceRecord{Name: name, Type: TypePTR, Class: ClassINET, TTL: ttl, RData: encodeUncompressedName(target)}
}

// NewTXT returns a TXT record from a set of character-strings.
func NewTXT(name Name, ttl uint32, strs [][]byte) (ResourceRecord, error) {
	data, err := encodeTXT(strs)
	if err != nil {
		return ResourceRecord{}, err
	}
	return ResourceRecord{Name: name, Type: TypeTXT, Class: ClassINET, TTL: ttl, RData: data}, nil
}

// SRVData is the parsed form of an SRV record's RDATA.
//
// See https://tools.ietf.org/html/rfc2782.
type SRVData struct {
	Priority uint16
	Weight   uint16
	Port     uint16
	Target   Name
}

// NewSRV returns an SRV record. Its target is always encoded uncompressed,
// as RFC 2782 requires.
func NewSRV(name Name, ttl uint32, d SRVData) ResourceRecord {
	return ResourceRecord{Name: name, Type: TypeSRV, Class: ClassINET, TTL: ttl, RData: encodeSRV(d)}
}

// A parses the record's RDATA as an IPv4 address.
func (r ResourceRecord) A() (net.IP, error) {
	if len(r.RData) != 4 {
		return nil, &ErrInvalidRData{Type: r.Type, Reason: "A record must be 4 octets"}
	}
	ip := make(net.IP, 4)
	copy(ip, r.RData)
	return ip, nil
}

// AAAA parses the record's RDATA as an IPv6 address.
func (r ResourceRecord) AAAA() (net.IP, error) {
	if len(r.RData) != 16 {
		return nil, &ErrInvalidRData{Type: r.Type, Reason: "AAAA record must be 16 octets"}
	}
	ip := make(net.IP, 16)
	copy(ip, r.RData)
	return ip, nil
}

// PTR parses the record's RDATA as a domain name.
func (r ResourceRecord) PTR() (Name, error) {
	n, _, err := decodeName(r.RData, 0)
	if err != nil {
		return Name{}, err
	}
	return n, nil
}

// SRV parses the record's RDATA as priority/weight/port/target.
func (r ResourceRecord) SRV() (SRVData, error) {
	if len(r.RData) < 7 {
		return SRVData{}, &ErrInvalidRData{Type: r.Type, Reason: "SRV record must be at least 7 octets"}
	}

	target, _, err := decodeName(r.RData, 6)
	if err != nil {
		return SRVData{}, err
	}

	return SRVData{
		Priority: be16(r.RData[0:2]),
		Weight:   be16(r.RData[2:4]),
		Port:     be16(r.RData[4:6]),
		Target:   target,
	}, nil
}

// TXT parses the record's RDATA as a sequence of character-strings.
func (r ResourceRecord) TXT() ([][]byte, error) {
	return decodeTXT(r.RData)
}

// TXTStrings parses the record's RDATA the same way TXT does, then
// interprets each character-string as UTF-8 text via TXTStringsOf, which
// is the common RFC 6763 §6.3 "key=value" convention.
func (r ResourceRecord) TXTStrings() ([]string, error) {
	strs, err := r.TXT()
	if err != nil {
		return nil, err
	}
	return TXTStringsOf(strs)
}

// TXTStringsOf interprets a sequence of already-decoded TXT
// character-strings as UTF-8 text. It returns ErrUTF8 for the first
// character-string that is not valid UTF-8, rather than silently
// substituting replacement characters, so a caller like
// browser.ServiceEntry can offer the same validated view of TXT content
// without re-decoding RDATA it no longer has.
func TXTStringsOf(strs [][]byte) ([]string, error) {
	out := make([]string, len(strs))
	for i, s := range strs {
		if !utf8.Valid(s) {
			return nil, &ErrUTF8{Reason: fmt.Sprintf("character-string %d is not valid UTF-8", i)}
		}
		out[i] = string(s)
	}
	return out, nil
}

func encodeA(ip net.IP) []byte {
	v4 := ip.To4()
	out := make([]byte, 4)
	copy(out, v4)
	return out
}

func encodeAAAA(ip net.IP) []byte {
	v6 := ip.To16()
	out := make([]byte, 16)
	copy(out, v6)
	return out
}

// encodeUncompressedName encodes n with no compression, suitable for
// storage as a self-contained RDATA blob (see decodeRR).
func encodeUncompressedName(n Name) []byte {
	e := newNameEncoder(nil)
	_ = e.encodeName(n, false)
	return e.buf
}

func encodeSRV(d SRVData) []byte {
	buf := make([]byte, 6)
	putBE16(buf[0:2], d.Priority)
	putBE16(buf[2:4], d.Weight)
	putBE16(buf[4:6], d.Port)
	return append(buf, encodeUncompressedName(d.Target)...)
}

// encodeTXT encodes a list of character-strings, each at most 255 bytes.
// An empty list encodes as a single zero-length character-string, per
// https://tools.ietf.org/html/rfc6763#section-6.1.
func encodeTXT(strs [][]byte) ([]byte, error) {
	if len(strs) == 0 {
		return []byte{0}, nil
	}

	var buf []byte
	for _, s := range strs {
		if len(s) > 255 {
			return nil, &ErrInvalidRData{Type: TypeTXT, Reason: "character-string exceeds 255 octets"}
		}
		buf = append(buf, byte(len(s)))
		buf = append(buf, s...)
	}

	return buf, nil
}

func decodeTXT(data []byte) ([][]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	// A lone zero-length character-string is how encodeTXT writes an empty
	// list, so it decodes back to an empty (non-nil) list.
	if len(data) == 1 && data[0] == 0 {
		return [][]byte{}, nil
	}

	var out [][]byte
	for i := 0; i < len(data); {
		n := int(data[i])
		i++

		if i+n > len(data) {
			return nil, &ErrNotEnoughReadBytes{Wanted: n, Available: len(data) - i}
		}

		s := make([]byte, n)
		copy(s, data[i:i+n])
		out = append(out, s)
		i += n
	}

	return out, nil
}

// decodeRR decodes a single resource record starting at offset within msg,
// returning the record and the offset of the byte following it.
//
// Names embedded in RDATA (PTR targets, SRV targets) are decompressed
// relative to the full message at decode time and re-encoded uncompressed
// before being stored, so that the resulting ResourceRecord.RData is
// self-contained: typed accessors never need the original message buffer.
func decodeRR(msg []byte, offset int) (ResourceRecord, int, error) {
	name, offset, err := decodeName(msg, offset)
	if err != nil {
		return ResourceRecord{}, 0, err
	}

	if offset+10 > len(msg) {
		return ResourceRecord{}, 0, &ErrNotEnoughReadBytes{Wanted: 10, Available: len(msg) - offset}
	}

	typ := be16(msg[offset : offset+2])
	class := be16(msg[offset+2 : offset+4])
	ttl := be32(msg[offset+4 : offset+8])
	rdlength := int(be16(msg[offset+8 : offset+10]))
	rdataStart := offset + 10

	if rdataStart+rdlength > len(msg) {
		return ResourceRecord{}, 0, &ErrNotEnoughReadBytes{Wanted: rdlength, Available: len(msg) - rdataStart}
	}

	rdata := msg[rdataStart : rdataStart+rdlength]
	nextOffset := rdataStart + rdlength

	var rdataOut []byte

	switch typ {
	case TypePTR:
		target, _, err := decodeName(msg, rdataStart)
		if err != nil {
			return ResourceRecord{}, 0, err
		}
		rdataOut = encodeUncompressedName(target)

	case TypeSRV:
		if rdlength < 6 {
			return ResourceRecord{}, 0, &ErrInvalidRData{Type: typ, Reason: "SRV record must be at least 6 octets"}
		}
		target, _, err := decodeName(msg, rdataStart+6)
		if err != nil {
			return ResourceRecord{}, 0, err
		}
		rdataOut = encodeSRV(SRVData{
			Priority: be16(rdata[0:2]),
			Weight:   be16(rdata[2:4]),
			Port:     be16(rdata[4:6]),
			Target:   target,
		})

	default:
		rdataOut = make([]byte, len(rdata))
		copy(rdataOut, rdata)
	}

	return ResourceRecord{
		Name:  name,
		Type:  typ,
		Class: class,
		TTL:   ttl,
		RData: rdataOut,
	}, nextOffset, nil
}

func (r ResourceRecord) encodeInto(e *nameEncoder) {
	e.encodeName(r.Name, true)

	header := make([]byte, 10)
	putBE16(header[0:2], r.Type)
	putBE16(header[2:4], r.Class)
	putBE32(header[4:8], r.TTL)
	putBE16(header[8:10], uint16(len(r.RData)))

	e.buf = append(e.buf, header...)
	e.buf = append(e.buf, r.RData...)
}
