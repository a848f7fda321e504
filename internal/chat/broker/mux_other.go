//go:build !linux && !darwin

package broker

// Multiplexer - readiness polling is not implemented for the platform.
type Multiplexer struct{}

// NewMultiplexer - always fails on unsupported platforms.
func NewMultiplexer() (*Multiplexer, error) {
	return nil, ErrUnsupportedPlatform
}

// Wait - always fails on unsupported platforms.
func (m *Multiplexer) Wait(r *Registry, listen bool) (Readiness, error) {
	return Readiness{}, ErrUnsupportedPlatform
}

// Writable - always false on unsupported platforms.
func (m *Multiplexer) Writable(s *Slot) bool {
	return false
}

// Wake - always fails on unsupported platforms.
func (m *Multiplexer) Wake() error {
	return ErrUnsupportedPlatform
}

// Close - nothing to release.
func (m *Multiplexer) Close() error {
	return nil
}

type spareHandle struct{}

func openSpare() *spareHandle {
	return &spareHandle{}
}

func (s *spareHandle) release() bool {
	return false
}

func (s *spareHandle) restore() {}

func handleLimit() int {
	return -1
}

func isHandleShortage(err error) bool {
	return false
}
