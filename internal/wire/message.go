package wire

// Message is a parsed DNS packet: a header plus the four record sections.
//
// See https://tools.ietf.org/html/rfc1035#section-4.1.
type Message struct {
	Header      Header
	Questions   []Question
	Answers     []ResourceRecord
	Authorities []ResourceRecord
	Additionals []ResourceRecord
}

// Decode parses buf into a freshly-allocated Message. It never reports
// ErrNotEnoughWriteSpace — section slices grow without bound. Callers that
// want to reuse fixed-capacity buffers (e.g. from a pool, to avoid
// allocating on every received packet) should use DecodeInto instead.
func Decode(buf []byte) (*Message, error) {
	m := &Message{}
	if err := decodeSections(buf, m, false); err != nil {
		return nil, err
	}
	return m, nil
}

// DecodeInto parses buf into dst, reusing dst.Questions/Answers/
// Authorities/Additionals as fixed-capacity destinations (their cap is
// respected; their len is reset to zero before decoding starts).
//
// If a section needs more room than its slice currently has capacity for,
// DecodeInto returns *ErrNotEnoughWriteSpace naming which section and how
// large it needs to be; the named section of dst is set to nil (sections
// decoded before it keep their contents), and the caller should grow the
// named slice (e.g. by
// reallocating with more capacity) and call DecodeInto again — decoding is
// idempotent, since it never mutates buf.
//
// The codec never allocates the destination itself, so a caller using a
// pool of reusable buffers controls exactly when growth happens.
func DecodeInto(buf []byte, dst *Message) error {
	return decodeSections(buf, dst, true)
}

func decodeSections(buf []byte, dst *Message, fixedCapacity bool) error {
	hdr, err := decodeHeader(buf)
	if err != nil {
		return err
	}
	dst.Header = hdr

	offset := headerLen

	dst.Questions, offset, err = decodeQuestions(buf, offset, int(hdr.QDCount), dst.Questions[:0], fixedCapacity)
	if err != nil {
		return err
	}

	dst.Answers, offset, err = decodeRRs(buf, offset, int(hdr.ANCount), dst.Answers[:0], BufferAnswers, fixedCapacity)
	if err != nil {
		return err
	}

	dst.Authorities, offset, err = decodeRRs(buf, offset, int(hdr.NSCount), dst.Authorities[:0], BufferAuthorities, fixedCapacity)
	if err != nil {
		return err
	}

	dst.Additionals, _, err = decodeRRs(buf, offset, int(hdr.ARCount), dst.Additionals[:0], BufferAdditionals, fixedCapacity)
	if err != nil {
		return err
	}

	return nil
}

// decodeQuestions decodes count questions starting at offset. Header
// counts are never trusted blindly: a malformed question always fails
// with a concrete decode error (it always consumes at least one byte when
// it succeeds, so there is no risk of looping forever on a non-advancing
// offset).
func decodeQuestions(buf []byte, offset, count int, dst []Question, fixedCapacity bool) ([]Question, int, error) {
	for i := 0; i < count; i++ {
		if fixedCapacity && len(dst) == cap(dst) {
			return nil, 0, &ErrNotEnoughWriteSpace{BufferType: BufferQuestions, TriedToWrite: len(dst) + 1}
		}

		name, next, err := decodeName(buf, offset)
		if err != nil {
			return nil, 0, err
		}

		if next+4 > len(buf) {
			return nil, 0, &ErrNotEnoughReadBytes{Wanted: 4, Available: len(buf) - next}
		}

		q := Question{
			Name:  name,
			Type:  be16(buf[next : next+2]),
			Class: be16(buf[next+2 : next+4]),
		}

		dst = append(dst, q)
		offset = next + 4
	}

	return dst, offset, nil
}

func decodeRRs(buf []byte, offset, count int, dst []ResourceRecord, bt BufferType, fixedCapacity bool) ([]ResourceRecord, int, error) {
	for i := 0; i < count; i++ {
		if fixedCapacity && len(dst) == cap(dst) {
			return nil, 0, &ErrNotEnoughWriteSpace{BufferType: bt, TriedToWrite: len(dst) + 1}
		}

		rr, next, err := decodeRR(buf, offset)
		if err != nil {
			return nil, 0, err
		}

		dst = append(dst, rr)
		offset = next
	}

	return dst, offset, nil
}

// Encode serializes m into a freshly-allocated, exactly-sized buffer, using
// name compression across the whole message.
func Encode(m *Message) ([]byte, error) {
	return encode(m, nil)
}

// EncodeInto serializes m into buf's backing array starting at index 0
// (any existing contents of buf are overwritten), failing with
// *ErrNotEnoughWriteSpace if the message does not fit in buf's capacity.
// A buf with zero capacity imposes no limit. This lets a caller try a small, possibly
// stack-allocated array first, falling back to Encode (which heap-
// allocates) only for larger messages.
func EncodeInto(buf []byte, m *Message) ([]byte, error) {
	return encode(m, buf)
}

func encode(m *Message, fixed []byte) ([]byte, error) {
	hdr := m.Header
	hdr.QDCount = uint16(len(m.Questions))
	hdr.ANCount = uint16(len(m.Answers))
	hdr.NSCount = uint16(len(m.Authorities))
	hdr.ARCount = uint16(len(m.Additionals))

	headerBytes := hdr.encode()

	var e *nameEncoder
	if fixed != nil {
		capacity := cap(fixed)
		e = newNameEncoder(fixed[:0])
		e.limit = capacity
	} else {
		e = newNameEncoder(nil)
	}

	e.buf = append(e.buf, headerBytes[:]...)
	if err := e.checkLimit(); err != nil {
		return nil, err
	}

	for _, q := range m.Questions {
		if err := e.encodeName(q.Name, true); err != nil {
			return nil, err
		}
		e.buf = append(e.buf, 0, 0, 0, 0)
		putBE16(e.buf[len(e.buf)-4:], q.Type)
		putBE16(e.buf[len(e.buf)-2:], q.Class)

		if err := e.checkLimit(); err != nil {
			return nil, err
		}
	}

	for _, section := range [][]ResourceRecord{m.Answers, m.Authorities, m.Additionals} {
		for _, rr := range section {
			rr.encodeInto(e)

			if err := e.checkLimit(); err != nil {
				return nil, err
			}
		}
	}

	return e.buf, nil
}
