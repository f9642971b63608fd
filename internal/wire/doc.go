// Package wire implements the DNS wire format subset used by mDNS / DNS-SD:
// header and flag framing, label compression, and typed RDATA for the A,
// AAAA, PTR, SRV and TXT record types.
//
// See https://tools.ietf.org/html/rfc1035 (wire format),
// https://tools.ietf.org/html/rfc6762 (mDNS) and
// https://tools.ietf.org/html/rfc6763 (DNS-SD).
package wire
