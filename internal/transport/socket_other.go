//go:build !linux && !darwin && !windows

package transport

import "syscall"

// reusePortControl is a no-op on platforms without a recognized
// SO_REUSEPORT/SO_REUSEADDR story; Listen still succeeds, it just won't
// coexist with another mDNS implementation on the same port.
func reusePortControl(_, _ string, _ syscall.RawConn) error {
	return nil
}
