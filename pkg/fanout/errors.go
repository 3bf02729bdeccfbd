package fanout

import "errors"

var (
	// ErrDuplicateConnection is returned by Add for an id already present.
	ErrDuplicateConnection = errors.New("fanout: connection already registered")
	// ErrInvalidConnection is returned by Add for a nil connection or empty id.
	ErrInvalidConnection = errors.New("fanout: invalid connection")
)
