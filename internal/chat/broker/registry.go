package broker

import (
	"fmt"
	"net"
	"syscall"

	"github.com/google/uuid"

	"github.com/wtask/framechat/internal/chat/frame"
)

// DefaultCapacity - default number of registry slots, equals to FD_SETSIZE on most platforms.
const DefaultCapacity = 1024

// SlotID - stable index of registry slot.
type SlotID int

// SlotState - lifecycle state of client connection.
type SlotState int

const (
	// StateConnecting - connection is registered but does not take part in relaying yet.
	StateConnecting SlotState = iota
	// StateActive - connection takes part in relaying.
	StateActive
	// StateClosing - connection is finished and waits for removal, nothing is relayed to it.
	StateClosing
	// StateClosed - connection is removed from registry and closed.
	StateClosed
)

func (s SlotState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Slot - single client connection kept by registry.
type Slot struct {
	ID      SlotID
	Session uuid.UUID
	Conn    net.Conn
	Addr    net.Addr
	State   SlotState

	handle int
	// incoming frame accumulated over several reads
	buf frame.Frame
	n   int
}

// Handle - returns OS descriptor of slot connection or -1 if connection has no descriptor.
func (s *Slot) Handle() int {
	return s.handle
}

// Pending - returns number of bytes of incomplete incoming frame.
func (s *Slot) Pending() int {
	return s.n
}

// accumulate - stores next part of incoming frame and reports whether frame is complete.
func (s *Slot) accumulate(read func([]byte) (int, error)) (f frame.Frame, complete bool, err error) {
	n, err := read(s.buf[s.n:])
	s.n += n
	if s.n < frame.Size {
		return f, false, err
	}
	f, s.n = s.buf, 0
	return f, true, err
}

// Registry - fixed-size arena of client connections plus listening connection.
// It is not safe for concurrent use, registry is owned by single control loop.
type Registry struct {
	slots    []*Slot
	live     int
	highest  int
	listener net.Listener
	lhandle  int
}

// NewRegistry - builds registry with fixed capacity.
func NewRegistry(capacity int) (*Registry, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("broker.NewRegistry: invalid capacity (%d)", capacity)
	}
	return &Registry{
		slots:   make([]*Slot, capacity),
		highest: -1,
		lhandle: -1,
	}, nil
}

// SetListener - registers listening connection, it never takes part in relaying.
func (r *Registry) SetListener(l net.Listener) {
	r.listener = l
	r.lhandle = -1
	if l != nil {
		r.lhandle = handleOf(l)
	}
	r.updateHighest()
}

// Listener - returns registered listening connection.
func (r *Registry) Listener() net.Listener {
	return r.listener
}

// ListenerHandle - returns OS descriptor of listening connection or -1.
func (r *Registry) ListenerHandle() int {
	return r.lhandle
}

// Add - places connection into first empty slot, the slot starts in StateConnecting.
func (r *Registry) Add(conn net.Conn) (*Slot, error) {
	if conn == nil {
		return nil, ErrNilConn
	}
	for i, s := range r.slots {
		if s != nil {
			continue
		}
		s = &Slot{
			ID:      SlotID(i),
			Session: uuid.New(),
			Conn:    conn,
			Addr:    conn.RemoteAddr(),
			State:   StateConnecting,
			handle:  handleOf(conn),
		}
		r.slots[i] = s
		r.live++
		if s.handle > r.highest {
			r.highest = s.handle
		}
		return s, nil
	}
	return nil, ErrCapacityExceeded
}

// Get - returns occupied slot or nil.
func (r *Registry) Get(id SlotID) *Slot {
	if id < 0 || int(id) >= len(r.slots) {
		return nil
	}
	return r.slots[id]
}

// Remove - frees the slot and closes its connection.
// Removing of empty slot is no-op.
func (r *Registry) Remove(id SlotID) {
	s := r.Get(id)
	if s == nil {
		return
	}
	r.slots[id] = nil
	r.live--
	s.Conn.Close()
	s.State = StateClosed
	if s.handle >= 0 && s.handle == r.highest {
		r.updateHighest()
	}
}

// Live - returns snapshot of occupied slots ordered by slot id.
func (r *Registry) Live() []*Slot {
	live := make([]*Slot, 0, r.live)
	for _, s := range r.slots {
		if s != nil {
			live = append(live, s)
		}
	}
	return live
}

// Len - returns number of occupied slots.
func (r *Registry) Len() int {
	return r.live
}

// Cap - returns registry capacity.
func (r *Registry) Cap() int {
	return len(r.slots)
}

// HighestHandle - returns the highest OS descriptor among listener and occupied slots, -1 if none.
func (r *Registry) HighestHandle() int {
	return r.highest
}

// Close - removes all occupied slots.
func (r *Registry) Close() {
	for i := range r.slots {
		r.Remove(SlotID(i))
	}
}

func (r *Registry) updateHighest() {
	r.highest = r.lhandle
	for _, s := range r.slots {
		if s != nil && s.handle > r.highest {
			r.highest = s.handle
		}
	}
}

// handleOf - extracts OS descriptor from connection or listener.
func handleOf(v interface{}) int {
	sc, ok := v.(syscall.Conn)
	if !ok {
		return -1
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return -1
	}
	handle := -1
	if err := raw.Control(func(fd uintptr) { handle = int(fd) }); err != nil {
		return -1
	}
	return handle
}
