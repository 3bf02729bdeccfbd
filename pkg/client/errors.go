package client

import "errors"

var (
	// ErrClosed is returned by submissions after the connection is gone.
	ErrClosed = errors.New("client: connection closed")
	// ErrDialFailed wraps a failure to open or register the connection.
	ErrDialFailed = errors.New("client: dial failed")
)
