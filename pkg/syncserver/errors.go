package syncserver

import "errors"

var (
	// ErrStoreUnavailable is returned by Start when the durable store cannot be reached.
	ErrStoreUnavailable = errors.New("syncserver: durable store unavailable")
	// ErrServerStopped is returned by Connect after Stop.
	ErrServerStopped = errors.New("syncserver: server stopped")
	// ErrUnknownConnection is returned for a connection id that was never connected.
	ErrUnknownConnection = errors.New("syncserver: unknown connection")
	// ErrInvalidTransition is returned when a message is not allowed in the connection's phase.
	ErrInvalidTransition = errors.New("syncserver: message not allowed in current connection phase")
	// ErrUnresolvedSession is returned when a connection has no session binding.
	ErrUnresolvedSession = errors.New("syncserver: connection has no session binding")
	// ErrMessageDropped is returned when an inbound payload is discarded.
	ErrMessageDropped = errors.New("syncserver: message dropped")
)
