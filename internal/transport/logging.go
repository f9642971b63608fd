package transport

import (
	"net"
	"sort"
	"strings"

	"github.com/dogmatiq/dodeca/logging"
)

func logListening(logger logging.Logger, addr *net.UDPAddr, ifaces []net.Interface) {
	names := make([]string, len(ifaces))
	for i, iface := range ifaces {
		names[i] = iface.Name
	}
	sort.Strings(names)

	logging.Debug(
		logger,
		"listening for mDNS packets on %s (%s)",
		addr,
		strings.Join(names, ", "),
	)
}

func logListenError(logger logging.Logger, addr *net.UDPAddr, err error) {
	logging.Log(logger, "unable to listen for mDNS packets on %s: %s", addr, err)
}

func logJoinError(logger logging.Logger, group net.IP, iface net.Interface, err error) {
	logging.Debug(
		logger,
		"unable to join the '%s' multicast group on the '%s' interface: %s",
		group,
		iface.Name,
		err,
	)
}

func logReadError(logger logging.Logger, group *net.UDPAddr, err error) {
	logging.Log(logger, "unable to read mDNS packet via %s: %s", group, err)
}

func logWriteError(logger logging.Logger, dest, group *net.UDPAddr, err error) {
	logging.Log(logger, "unable to send mDNS packet to %s via %s: %s", dest, group, err)
}
