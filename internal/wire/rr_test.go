package wire

import (
	"bytes"
	"net"
	"testing"
)

func TestTXTRoundTrip(t *testing.T) {
	cases := [][][]byte{
		nil,
		{[]byte("Local web server")},
		{[]byte("a=1"), []byte("b=2"), []byte("")},
		{bytes.Repeat([]byte("x"), 255)},
	}

	for i, strs := range cases {
		data, err := encodeTXT(strs)
		if err != nil {
			t.Fatalf("case %d: encodeTXT: %v", i, err)
		}

		got, err := decodeTXT(data)
		if err != nil {
			t.Fatalf("case %d: decodeTXT: %v", i, err)
		}

		if len(strs) == 0 {
			if len(got) != 0 {
				t.Fatalf("case %d: expected no strings, got %v", i, got)
			}
			continue
		}

		if len(got) != len(strs) {
			t.Fatalf("case %d: got %d strings, want %d", i, len(got), len(strs))
		}

		for j := range strs {
			if !bytes.Equal(got[j], strs[j]) {
				t.Fatalf("case %d string %d: got %q, want %q", i, j, got[j], strs[j])
			}
		}
	}
}

func TestTXTRejectsOversizedString(t *testing.T) {
	_, err := encodeTXT([][]byte{bytes.Repeat([]byte("x"), 256)})
	if err == nil {
		t.Fatal("expected an error for a 256-byte character-string")
	}
}

func TestTXTStringsValidatesUTF8(t *testing.T) {
	valid := ResourceRecord{RData: mustEncodeTXT(t, [][]byte{[]byte("a=1"), []byte("b=2")})}

	got, err := valid.TXTStrings()
	if err != nil {
		t.Fatalf("TXTStrings: %v", err)
	}
	if len(got) != 2 || got[0] != "a=1" || got[1] != "b=2" {
		t.Fatalf("TXTStrings = %v, want [a=1 b=2]", got)
	}

	invalid := ResourceRecord{RData: mustEncodeTXT(t, [][]byte{{0xff, 0xfe}})}
	if _, err := invalid.TXTStrings(); err == nil {
		t.Fatal("expected ErrUTF8 for non-UTF-8 character-string")
	} else if _, ok := err.(*ErrUTF8); !ok {
		t.Fatalf("got error of type %T, want *ErrUTF8", err)
	}
}

func mustEncodeTXT(t *testing.T, strs [][]byte) []byte {
	t.Helper()
	data, err := encodeTXT(strs)
	if err != nil {
		t.Fatalf("encodeTXT: %v", err)
	}
	return data
}

func TestSRVRoundTrip(t *testing.T) {
	name := MustParseName("hostname._http._tcp.local.")
	target := MustParseName("testhost.local.")

	rr := NewSRV(name, 120, SRVData{Priority: 10, Weight: 1, Port: 80, Target: target})

	data, err := rr.SRV()
	if err != nil {
		t.Fatalf("SRV(): %v", err)
	}

	if data.Priority != 10 || data.Weight != 1 || data.Port != 80 {
		t.Fatalf("got %+v", data)
	}
	if !data.Target.Equal(target) {
		t.Fatalf("target = %v, want %v", data.Target, target)
	}

	// port bytes (4..6 of rdata) must be big-endian 0x0050, per scenario 3.
	if rr.RData[4] != 0x00 || rr.RData[5] != 0x50 {
		t.Fatalf("port bytes = % x, want 00 50", rr.RData[4:6])
	}
}

func TestAAAARoundTrip(t *testing.T) {
	ip := net.ParseIP("2620:0:1000:1900:b0c2:d0b2:c411:18bc")
	name := MustParseName("testhost.local.")

	rr := NewAAAA(name, 120, ip)

	got, err := rr.AAAA()
	if err != nil {
		t.Fatalf("AAAA(): %v", err)
	}

	if !got.Equal(ip) {
		t.Fatalf("got %v, want %v", got, ip)
	}
}

func TestDecodeRRNormalizesCompressedPTR(t *testing.T) {
	// Write "local." at offset 0, then a PTR record whose owner name is
	// "_http._tcp.local." (compressed against the first name) and whose
	// RDATA is a bare pointer back to "local.".
	e := newNameEncoder(nil)
	if err := e.encodeName(MustParseName("local."), true); err != nil {
		t.Fatal(err)
	}
	rrOffset := len(e.buf)

	owner := MustParseName("_http._tcp.local.")
	if err := e.encodeName(owner, true); err != nil {
		t.Fatal(err)
	}

	header := make([]byte, 10)
	putBE16(header[0:2], TypePTR)
	putBE16(header[2:4], ClassINET)
	putBE32(header[4:8], 120)

	// rdata: a pointer back to offset 0 ("local.")
	rdata := []byte{0xC0, 0x00}
	putBE16(header[8:10], uint16(len(rdata)))

	e.buf = append(e.buf, header...)
	e.buf = append(e.buf, rdata...)

	rr, _, err := decodeRR(e.buf, rrOffset)
	if err != nil {
		t.Fatalf("decodeRR: %v", err)
	}

	ptr, err := rr.PTR()
	if err != nil {
		t.Fatalf("PTR(): %v", err)
	}

	want := MustParseName("local.")
	if !ptr.Equal(want) {
		t.Fatalf("got %v, want %v", ptr, want)
	}
}
