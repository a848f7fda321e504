package chat

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/wtask/framechat/internal/chat/broker"
)

// Server - represents chat server over net.Listener with OS descriptor (TCP, unix).
type Server struct {
	buildBroker BrokerBuilder
	logger      Logger
	verbose     bool

	mu     sync.Mutex
	broker *broker.Broker
	closed bool
}

// ServerOption - configures Server.
type ServerOption func(s *Server) error

// WithLogger - attach logger for connection events.
func WithLogger(l Logger) ServerOption {
	return func(s *Server) error {
		if s.logger != nil {
			return errors.New("chat.WithLogger: logger already set up")
		}
		s.logger = l
		return nil
	}
}

// WithMessageLog - enables logging of every relayed message.
func WithMessageLog() ServerOption {
	return func(s *Server) error {
		s.verbose = true
		return nil
	}
}

// NewServer - creates new chat server.
func NewServer(buildBroker BrokerBuilder, options ...ServerOption) (*Server, error) {
	if buildBroker == nil {
		return nil, errors.New("chat.NewServer: required chat.BrokerBuilder is nil")
	}
	s := &Server{buildBroker: buildBroker}
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Serve - serves specified listener until Shutdown. Blocks the caller.
// The listener is closed when Serve returns.
func (s *Server) Serve(listener net.Listener) error {
	if listener == nil {
		return errors.New("chat.Server: listener is nil")
	}
	s.mu.Lock()
	if s.closed || s.broker != nil {
		s.mu.Unlock()
		listener.Close()
		return ErrServerClosed
	}
	b, err := s.buildBroker(listener, s.handlers()...)
	if err != nil {
		s.mu.Unlock()
		listener.Close()
		return fmt.Errorf("chat.Server: can't build broker: %w", err)
	}
	s.broker = b
	s.mu.Unlock()

	logInfo(s.logger, "Listen", formatAddress(b.Addr()), "capacity:", b.Cap())
	err = b.Serve()
	if errors.Is(err, broker.ErrBrokerClosed) {
		// shut down before the loop has started
		return ErrServerClosed
	}
	if err != nil {
		logError(s.logger, "Relay loop has failed:", err)
		return err
	}
	return nil
}

// Shutdown - stops server with the specified timeout and returns stopping duration.
func (s *Server) Shutdown(timeout time.Duration) time.Duration {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0
	}
	s.closed = true
	b := s.broker
	s.mu.Unlock()

	if b == nil {
		return 0
	}
	return b.Quit(timeout)
}

func (s *Server) handlers() []broker.Option {
	options := []broker.Option{
		broker.WithJoinHandler(s.handleJoin),
		broker.WithPartHandler(s.handlePart),
		broker.WithRejectHandler(s.handleReject),
	}
	if s.verbose {
		options = append(options, broker.WithMessageHandler(s.handleMessage))
	}
	return options
}

func (s *Server) handleJoin(e broker.JoinEvent) {
	logInfo(
		s.logger,
		"Client", formatAddress(e.Addr), "has joined,",
		"slot:", e.Slot, "session:", e.Session, "clients:", e.Live,
	)
}

func (s *Server) handlePart(e broker.PartEvent) {
	if e.Err != nil {
		logError(
			s.logger,
			"Client", formatAddress(e.Addr), "has", formatPartAction(e.Action)+":", e.Err,
			"slot:", e.Slot, "session:", e.Session, "clients:", e.Live,
		)
		return
	}
	logInfo(
		s.logger,
		"Client", formatAddress(e.Addr), "has", formatPartAction(e.Action)+",",
		"slot:", e.Slot, "session:", e.Session, "clients:", e.Live,
	)
}

func (s *Server) handleReject(e broker.RejectEvent) {
	if errors.Is(e.Reason, broker.ErrCapacityExceeded) {
		logError(s.logger, "Client", formatAddress(e.Addr), "is rejected, too many clients")
		return
	}
	if errors.Is(e.Reason, broker.ErrOutOfHandles) {
		logError(s.logger, "Client", formatAddress(e.Addr), "is rejected, out of descriptors")
		return
	}
	logError(s.logger, "Accept failed:", e.Reason)
}

func (s *Server) handleMessage(e broker.MessageEvent) {
	logDebug(
		s.logger,
		"Message from", formatAddress(e.Addr), formatFrame(e.Frame),
		"relayed to", e.Recipients, "client(s)",
	)
}
