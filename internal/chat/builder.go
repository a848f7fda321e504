package chat

import (
	"errors"
	"net"
	"time"

	"github.com/wtask/framechat/internal/chat/broker"
)

// BrokerBuilder - helps to build custom broker.Broker for given listener.
// Server passes its own event handlers within options.
type BrokerBuilder func(listener net.Listener, options ...broker.Option) (*broker.Broker, error)

// DefaultBroker - returns builder of broker.Broker with default capacity and timeouts.
func DefaultBroker() BrokerBuilder {
	return ConfiguredBroker(broker.DefaultCapacity, 5*time.Second, 10*time.Second)
}

// ConfiguredBroker - returns builder of broker.Broker with given capacity and timeouts.
func ConfiguredBroker(capacity int, readTimeout, writeTimeout time.Duration) BrokerBuilder {
	return func(listener net.Listener, options ...broker.Option) (*broker.Broker, error) {
		if listener == nil {
			return nil, errors.New("chat.ConfiguredBroker: listener is required")
		}
		return broker.New(
			listener,
			append(
				[]broker.Option{
					broker.WithCapacity(capacity),
					broker.WithReadTimeout(readTimeout),
					broker.WithWriteTimeout(writeTimeout),
				},
				options...,
			)...,
		)
	}
}
