//go:build linux || darwin

package chat

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// reuseAddr - allows to bind the port immediately after restart.
func reuseAddr(network, address string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}
