package broker

import (
	"errors"
	"fmt"
	"time"
)

// WithCapacity - overwrites default number of registry slots.
func WithCapacity(capacity int) Option {
	return func(b *Broker) error {
		if capacity <= 0 {
			return fmt.Errorf("broker.WithCapacity: invalid capacity (%d)", capacity)
		}
		b.capacity = capacity
		return nil
	}
}

// WithReadTimeout - overwrites default read timeout of connections.
// Read is attempted only for ready connection, so timeout guards the loop against spurious readiness.
func WithReadTimeout(timeout time.Duration) Option {
	return func(b *Broker) error {
		if timeout <= 0 {
			return fmt.Errorf("broker.WithReadTimeout: invalid timeout (%v)", timeout)
		}
		b.readTimeout = timeout
		return nil
	}
}

// WithWriteTimeout - overwrites default write timeout of connections.
// The client which is not able to accept the frame during timeout is disconnected.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(b *Broker) error {
		if timeout <= 0 {
			return fmt.Errorf("broker.WithWriteTimeout: invalid timeout (%v)", timeout)
		}
		b.writeTimeout = timeout
		return nil
	}
}

// WithJoinHandler - attach handler to be notified of client is joined.
// Handlers are called from the broker loop and must not block.
func WithJoinHandler(h func(JoinEvent)) Option {
	return func(b *Broker) error {
		if b.onJoin != nil {
			return errors.New("broker.WithJoinHandler: join handler already set up")
		}
		b.onJoin = h
		return nil
	}
}

// WithPartHandler - attach handler to be notified of parting with client.
func WithPartHandler(h func(PartEvent)) Option {
	return func(b *Broker) error {
		if b.onPart != nil {
			return errors.New("broker.WithPartHandler: part handler already set up")
		}
		b.onPart = h
		return nil
	}
}

// WithRejectHandler - attach handler to be notified of dropped new connections.
func WithRejectHandler(h func(RejectEvent)) Option {
	return func(b *Broker) error {
		if b.onReject != nil {
			return errors.New("broker.WithRejectHandler: reject handler already set up")
		}
		b.onReject = h
		return nil
	}
}

// WithMessageHandler - attach handler to be notified of relayed frames.
func WithMessageHandler(h func(MessageEvent)) Option {
	return func(b *Broker) error {
		if b.onMessage != nil {
			return errors.New("broker.WithMessageHandler: message handler already set up")
		}
		b.onMessage = h
		return nil
	}
}
