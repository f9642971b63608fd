//go:build windows

package transport

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// reusePortControl sets SO_REUSEADDR. Windows has no SO_REUSEPORT; its
// SO_REUSEADDR already permits multiple processes to bind the same port,
// which is the behavior being requested here.
func reusePortControl(_, _ string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}
