//go:build linux

package transport

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// reusePortControl sets SO_REUSEADDR and, where the kernel supports it (3.9+),
// SO_REUSEPORT, so more than one mDNS implementation (e.g. avahi-daemon,
// systemd-resolved) can bind port 5353 at once.
func reusePortControl(_, _ string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = setReuseOptions(int(fd))
	})
	if err != nil {
		return err
	}
	return sockErr
}

func setReuseOptions(fd int) error {
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return err
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
		if err != unix.ENOPROTOOPT {
			return err
		}
	}

	return nil
}
