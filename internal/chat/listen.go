package chat

import (
	"context"
	"fmt"
	"net"
)

// Listen - starts TCP listener with SO_REUSEADDR option.
func Listen(ctx context.Context, address string) (net.Listener, error) {
	lc := net.ListenConfig{Control: reuseAddr}
	listener, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("chat.Listen: %w", err)
	}
	return listener, nil
}
