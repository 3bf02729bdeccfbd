package kvstore

import "errors"

var (
	// ErrNotFound is returned by Get when the key is absent.
	ErrNotFound = errors.New("kvstore: key not found")
	// ErrEmptyKey is returned when an operation is called with an empty key.
	ErrEmptyKey = errors.New("kvstore: empty key")
	// ErrClosed is returned when the store has been closed.
	ErrClosed = errors.New("kvstore: store is closed")
	// ErrUnknownDriver is returned by Open for an unsupported driver name.
	ErrUnknownDriver = errors.New("kvstore: unknown driver")
)

// IsNotFound reports whether err means the key is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
