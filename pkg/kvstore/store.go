package kvstore

import "context"

// Store is a durable key-value store keyed by plain strings.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Clear removes every record owned by the store.
	Clear(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}
