//go:build !linux && !darwin

package chat

import "syscall"

func reuseAddr(network, address string, c syscall.RawConn) error {
	return nil
}
