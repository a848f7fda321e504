//go:build linux || darwin

package broker

import (
	"errors"
	"math"

	"golang.org/x/sys/unix"
)

// spareHandle - descriptor held open to be given up when the process runs out of descriptors,
// so a pending connection can still be accepted and closed.
type spareHandle struct {
	fd int
}

func openSpare() *spareHandle {
	s := &spareHandle{fd: -1}
	s.restore()
	return s
}

// release - closes spare descriptor, returns false if there was nothing to close.
func (s *spareHandle) release() bool {
	if s.fd < 0 {
		return false
	}
	unix.Close(s.fd)
	s.fd = -1
	return true
}

// restore - opens spare descriptor again, stays empty if the process is still out of descriptors.
func (s *spareHandle) restore() {
	if s.fd >= 0 {
		return
	}
	fd, err := unix.Open("/dev/null", unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err == nil {
		s.fd = fd
	}
}

// handleLimit - returns soft limit of open descriptors for the process, -1 if unlimited or unknown.
func handleLimit() int {
	rl := unix.Rlimit{}
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rl); err != nil || rl.Cur > math.MaxInt32 {
		return -1
	}
	return int(rl.Cur)
}

func isHandleShortage(err error) bool {
	return errors.Is(err, unix.EMFILE) || errors.Is(err, unix.ENFILE)
}
