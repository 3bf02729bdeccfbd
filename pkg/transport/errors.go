package transport

import "errors"

var (
	// ErrConnectionClosed is returned by Send after the connection is closed.
	ErrConnectionClosed = errors.New("transport: connection closed")
	// ErrSendQueueFull is returned by Send when the peer is not keeping up.
	ErrSendQueueFull = errors.New("transport: send queue full")
)
