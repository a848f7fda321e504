package broker

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/wtask/framechat/internal/chat/frame"
)

const (
	// reservedHandles - descriptors which are not counted in registry capacity:
	// standard streams, listener, wake pipe, spare descriptor and runtime poller.
	reservedHandles = 8

	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Broker - chat connections keeper and frame relay.
// Single goroutine running Serve owns all connections, the broker never starts I/O goroutines.
type Broker struct {
	capacity int
	readTimeout,
	writeTimeout time.Duration

	onJoin    func(JoinEvent)
	onPart    func(PartEvent)
	onReject  func(RejectEvent)
	onMessage func(MessageEvent)

	listener net.Listener
	clients  *Registry
	mux      *Multiplexer
	spare    *spareHandle

	// accept backoff after listener failures
	acceptDelay  time.Duration
	acceptResume time.Time

	served   atomic.Bool
	stopping atomic.Bool
	done     chan struct{}
}

type deadliner interface {
	SetDeadline(t time.Time) error
}

// Option - configures Broker.
type Option func(b *Broker) error

func setup(b *Broker, options ...Option) error {
	if b == nil {
		return nil
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(b); err != nil {
			return err
		}
	}
	return nil
}

// New - builds Broker for given listener with needed options.
func New(listener net.Listener, options ...Option) (*Broker, error) {
	if listener == nil {
		return nil, errors.New("broker.New: listener is nil")
	}
	b := &Broker{
		capacity:     DefaultCapacity,
		readTimeout:  5 * time.Second,
		writeTimeout: 10 * time.Second,
		listener:     listener,
		done:         make(chan struct{}),
	}
	if err := setup(b, options...); err != nil {
		return nil, err
	}
	b.capacity = fitCapacity(b.capacity, handleLimit())

	clients, err := NewRegistry(b.capacity)
	if err != nil {
		return nil, err
	}
	clients.SetListener(listener)
	if clients.ListenerHandle() < 0 {
		return nil, fmt.Errorf("broker.New: listener %T has no OS descriptor", listener)
	}
	b.clients = clients

	if b.mux, err = NewMultiplexer(); err != nil {
		return nil, err
	}
	b.spare = openSpare()
	return b, nil
}

// fitCapacity - lowers capacity so that every slot can get a descriptor under the process limit.
// Negative limit means there is no limit.
func fitCapacity(capacity, limit int) int {
	if limit < 0 || capacity <= limit-reservedHandles {
		return capacity
	}
	if limit <= reservedHandles {
		return 1
	}
	return limit - reservedHandles
}

// Addr - returns listener network address.
func (b *Broker) Addr() net.Addr {
	return b.listener.Addr()
}

// Cap - returns max number of simultaneously connected clients.
func (b *Broker) Cap() int {
	return b.clients.Cap()
}

// Serve - runs the relay loop until Quit is called or the wait for readiness fails.
// Returns nil after Quit.
func (b *Broker) Serve() error {
	if !b.served.CompareAndSwap(false, true) {
		return ErrBrokerClosed
	}
	defer close(b.done)
	defer b.cleanup()

	for !b.stopping.Load() {
		ready, err := b.mux.Wait(b.clients, !time.Now().Before(b.acceptResume))
		if err != nil {
			return fmt.Errorf("broker.Serve: %w", err)
		}
		if b.stopping.Load() {
			break
		}
		if ready.Listener {
			if err := b.accept(); err != nil {
				return err
			}
		}
		for _, s := range ready.Slots {
			// slot may be dropped in this iteration while relaying
			if b.clients.Get(s.ID) != s || s.State != StateActive {
				continue
			}
			b.receive(s)
		}
	}
	return nil
}

// Quit - stops the relay loop and waits until all connections are closed.
// Returns duration of time spent for quit. This time always less or equal of given timeout.
func (b *Broker) Quit(timeout time.Duration) time.Duration {
	if !b.stopping.CompareAndSwap(false, true) {
		return 0
	}
	from := time.Now()
	if b.served.CompareAndSwap(false, true) {
		// Serve has never been launched
		b.cleanup()
		close(b.done)
		return time.Since(from)
	}
	b.mux.Wake()
	select {
	case <-b.done:
	case <-time.After(timeout):
	}
	return time.Since(from)
}

func (b *Broker) accept() error {
	if l, ok := b.listener.(deadliner); ok {
		l.SetDeadline(time.Now().Add(b.readTimeout))
	}
	conn, err := b.listener.Accept()
	if err == nil {
		b.acceptDelay = 0
		b.admit(conn)
		return nil
	}
	if errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("broker.Serve: %w", err)
	}
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		// pending connection has gone away
		return nil
	}
	if isHandleShortage(err) && b.spare.release() {
		// pending connection is taken off the backlog, otherwise the listener stays ready forever
		conn, acceptErr := b.listener.Accept()
		if acceptErr == nil {
			addr := conn.RemoteAddr()
			conn.Close()
			b.spare.restore()
			b.notifyReject(addr, fmt.Errorf("%w: %v", ErrOutOfHandles, err))
			return nil
		}
		b.spare.restore()
	}
	// listener is still usable, but it is not polled until the delay is over
	b.pauseAccept()
	b.notifyReject(nil, err)
	return nil
}

// admit - registers accepted connection and lets it take part in relaying.
func (b *Broker) admit(conn net.Conn) {
	s, err := b.clients.Add(conn)
	if err != nil {
		addr := conn.RemoteAddr()
		conn.Close()
		b.notifyReject(addr, err)
		return
	}
	s.State = StateActive
	b.notifyJoin(s)
}

// pauseAccept - excludes listener from polling for doubled delay, from minAcceptDelay up to maxAcceptDelay.
func (b *Broker) pauseAccept() {
	if b.acceptDelay == 0 {
		b.acceptDelay = minAcceptDelay
	} else {
		b.acceptDelay *= 2
	}
	if b.acceptDelay > maxAcceptDelay {
		b.acceptDelay = maxAcceptDelay
	}
	b.acceptResume = time.Now().Add(b.acceptDelay)
	time.AfterFunc(b.acceptDelay, func() {
		// error means the broker is already closed
		b.mux.Wake()
	})
}

// receive - makes single read from ready connection and relays complete frame.
func (b *Broker) receive(s *Slot) {
	s.Conn.SetReadDeadline(time.Now().Add(b.readTimeout))
	f, complete, err := s.accumulate(s.Conn.Read)
	if complete {
		b.relay(s, f)
	}
	if err == nil {
		return
	}
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		// nothing to read actually, the rest of frame will come later
		return
	}
	if errors.Is(err, io.EOF) {
		b.drop(s, PartActionLeft, nil)
		return
	}
	b.drop(s, PartActionReadError, err)
}

// relay - sends frame to every active connection except origin.
// Destination which is not ready for writing is dropped instead of blocking the loop.
func (b *Broker) relay(origin *Slot, f frame.Frame) {
	out := frame.EncodeRelay(remoteIP(origin.Addr), f)
	recipients := 0
	for _, s := range b.clients.Live() {
		if s == origin || s.State != StateActive {
			continue
		}
		if !b.mux.Writable(s) {
			b.drop(s, PartActionWriteError, ErrSlowClient)
			continue
		}
		s.Conn.SetWriteDeadline(time.Now().Add(b.writeTimeout))
		if err := frame.WriteFrame(s.Conn, out); err != nil {
			b.drop(s, PartActionWriteError, err)
			continue
		}
		recipients++
	}
	b.notifyMessage(origin, f, recipients)
}

func (b *Broker) drop(s *Slot, action PartAction, cause error) {
	s.State = StateClosing
	event := netEvent(s)
	b.clients.Remove(s.ID)
	b.notifyPart(event, action, cause)
}

func (b *Broker) cleanup() {
	for _, s := range b.clients.Live() {
		b.drop(s, PartActionShutdown, nil)
	}
	b.listener.Close()
	b.mux.Close()
	b.spare.release()
}

func (b *Broker) notifyJoin(s *Slot) {
	if b.onJoin == nil {
		return
	}
	b.onJoin(JoinEvent{netEvent(s), b.clients.Len()})
}

func (b *Broker) notifyPart(event NetEvent, action PartAction, cause error) {
	if b.onPart == nil {
		return
	}
	b.onPart(PartEvent{event, action, cause, b.clients.Len()})
}

func (b *Broker) notifyReject(addr net.Addr, reason error) {
	if b.onReject == nil {
		return
	}
	b.onReject(RejectEvent{addr, time.Now().UTC(), reason})
}

func (b *Broker) notifyMessage(s *Slot, f frame.Frame, recipients int) {
	if b.onMessage == nil {
		return
	}
	b.onMessage(MessageEvent{netEvent(s), f, recipients})
}

// remoteIP - returns IP part of network address.
func remoteIP(a net.Addr) string {
	if a == nil {
		return ""
	}
	if tcp, ok := a.(*net.TCPAddr); ok {
		return tcp.IP.String()
	}
	host, _, err := net.SplitHostPort(a.String())
	if err != nil {
		return a.String()
	}
	return host
}
