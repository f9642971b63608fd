package arpa_test

import (
	"net"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/arlow/mdnssd/internal/arpa"
)

var _ = Describe("Name", func() {
	It("returns an in-addr.arpa name for IPv4 addresses", func() {
		name, err := arpa.Name(net.ParseIP("192.168.60.30"))

		Expect(err).NotTo(HaveOccurred())
		Expect(name.String()).To(Equal("30.60.168.192.in-addr.arpa."))
	})

	It("returns an ip6.arpa name for IPv6 addresses", func() {
		name, err := arpa.Name(net.ParseIP("2001:db8::567:89ab"))

		Expect(err).NotTo(HaveOccurred())
		Expect(name.String()).To(Equal(
			"b.a.9.8.7.6.5.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.8.b.d.0.1.0.0.2.ip6.arpa.",
		))
	})

	It("returns an error for a non-IP input", func() {
		_, err := arpa.Name(nil)

		Expect(err).To(HaveOccurred())
	})
})
