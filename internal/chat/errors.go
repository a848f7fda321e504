package chat

import "errors"

var (
	// ErrServerClosed - returns by Serve after Shutdown or on repeated Serve call.
	ErrServerClosed = errors.New("chat.Server: closed")
)
