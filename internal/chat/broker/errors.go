package broker

import "errors"

var (
	// ErrCapacityExceeded - returns when all registry slots are occupied.
	// The connection is not kept, so you should close it by your own.
	ErrCapacityExceeded = errors.New("broker.Registry: capacity exceeded")

	// ErrNilConn - returns when nil connection is passed to registry.
	ErrNilConn = errors.New("broker.Registry: connection is nil")

	// ErrBrokerClosed - returns in case if Broker is under stop condition or already stopped.
	ErrBrokerClosed = errors.New("broker.Broker: closed")

	// ErrOutOfHandles - reason of rejection when the process has no free descriptor for new connection.
	ErrOutOfHandles = errors.New("broker.Broker: out of descriptors")

	// ErrSlowClient - returns when a client does not accept relayed frames in time.
	ErrSlowClient = errors.New("broker.Broker: client is not ready for writing")

	// ErrUnsupportedPlatform - returns when readiness polling is not available.
	ErrUnsupportedPlatform = errors.New("broker.Multiplexer: readiness polling is not supported on this platform")
)
