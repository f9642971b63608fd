// Package arpa converts IP addresses to their reverse-lookup domain names
// under in-addr.arpa. / ip6.arpa., for callers that want to issue a
// confirming PTR query against an address a Lookup already resolved.
//
// It is grounded on resolver.ipToArpa, adapted to return a wire.Name
// rather than a bare string so callers can feed it straight into a
// wire.Question.
package arpa

import (
	"bytes"
	"fmt"
	"net"
	"strconv"

	"github.com/arlow/mdnssd/internal/wire"
)

// Name returns the arpa domain name used to look up ip in a PTR record.
func Name(ip net.IP) (wire.Name, error) {
	if v4 := ip.To4(); v4 != nil {
		return wire.ParseName(fmt.Sprintf(
			"%d.%d.%d.%d.in-addr.arpa.",
			v4[3], v4[2], v4[1], v4[0],
		))
	}

	v6 := ip.To16()
	if v6 == nil {
		return wire.Name{}, fmt.Errorf("arpa: %v is not an IP address", ip)
	}

	buf := &bytes.Buffer{}
	for idx := 15; idx >= 0; idx-- {
		octet := int64(v6[idx])
		high := octet >> 4
		low := octet & 0xf

		buf.WriteString(strconv.FormatInt(low, 16))
		buf.WriteRune('.')
		buf.WriteString(strconv.FormatInt(high, 16))
		buf.WriteRune('.')
	}
	buf.WriteString("ip6.arpa.")

	return wire.ParseName(buf.String())
}
