//go:build linux || darwin

package broker

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

const readyEvents = unix.POLLIN | unix.POLLHUP | unix.POLLERR | unix.POLLNVAL

// Multiplexer - waits until listener or any registered connection is ready for reading.
// The wait has no timeout, only Wake interrupts it without I/O readiness.
type Multiplexer struct {
	fds   []unix.PollFd
	slots []*Slot
	// self-pipe to interrupt waiting
	mu           sync.Mutex
	wakeR, wakeW int
}

// NewMultiplexer - builds multiplexer.
func NewMultiplexer() (*Multiplexer, error) {
	p := make([]int, 2)
	if err := unix.Pipe(p); err != nil {
		return nil, fmt.Errorf("broker.NewMultiplexer: %w", err)
	}
	for _, fd := range p {
		unix.CloseOnExec(fd)
		if err := unix.SetNonblock(fd, true); err != nil {
			unix.Close(p[0])
			unix.Close(p[1])
			return nil, fmt.Errorf("broker.NewMultiplexer: %w", err)
		}
	}
	return &Multiplexer{wakeR: p[0], wakeW: p[1]}, nil
}

// Wait - blocks until at least one of registered handles is ready.
// Descriptor set is rebuilt from registry on every call, the listener is skipped unless listen is true.
func (m *Multiplexer) Wait(r *Registry, listen bool) (Readiness, error) {
	ready := Readiness{}
	if m.wakeR < 0 {
		return ready, ErrBrokerClosed
	}

	m.fds = append(m.fds[:0], unix.PollFd{Fd: int32(m.wakeR), Events: unix.POLLIN})
	m.slots = m.slots[:0]
	listener := -1
	if listen {
		listener = r.ListenerHandle()
	}
	if listener >= 0 {
		m.fds = append(m.fds, unix.PollFd{Fd: int32(listener), Events: unix.POLLIN})
	}
	for _, s := range r.Live() {
		if s.handle < 0 {
			continue
		}
		m.fds = append(m.fds, unix.PollFd{Fd: int32(s.handle), Events: unix.POLLIN})
		m.slots = append(m.slots, s)
	}

	for {
		_, err := unix.Poll(m.fds, -1)
		if err == nil {
			break
		}
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return ready, fmt.Errorf("broker.Multiplexer: poll: %w", err)
	}

	if m.fds[0].Revents != 0 {
		ready.Woken = true
		m.drain()
	}
	fds := m.fds[1:]
	if listener >= 0 {
		ready.Listener = fds[0].Revents&readyEvents != 0
		fds = fds[1:]
	}
	for i, fd := range fds {
		if fd.Revents&readyEvents != 0 {
			ready.Slots = append(ready.Slots, m.slots[i])
		}
	}
	return ready, nil
}

// Writable - reports whether slot connection can accept data without blocking.
// Connections without descriptor are always reported writable.
func (m *Multiplexer) Writable(s *Slot) bool {
	if s.handle < 0 {
		return true
	}
	fds := []unix.PollFd{{Fd: int32(s.handle), Events: unix.POLLOUT}}
	for {
		n, err := unix.Poll(fds, 0)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return err == nil && n > 0 && fds[0].Revents&unix.POLLOUT != 0
	}
}

// Wake - interrupts current or next Wait.
func (m *Multiplexer) Wake() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.wakeW < 0 {
		return ErrBrokerClosed
	}
	_, err := unix.Write(m.wakeW, []byte{1})
	if errors.Is(err, unix.EAGAIN) {
		// pipe is full, Wait will be woken anyway
		return nil
	}
	return err
}

// Close - releases multiplexer resources.
func (m *Multiplexer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.wakeR < 0 {
		return nil
	}
	err := unix.Close(m.wakeR)
	if e := unix.Close(m.wakeW); err == nil {
		err = e
	}
	m.wakeR, m.wakeW = -1, -1
	return err
}

func (m *Multiplexer) drain() {
	buf := make([]byte, 64)
	for {
		if n, err := unix.Read(m.wakeR, buf); n <= 0 || err != nil {
			return
		}
	}
}
