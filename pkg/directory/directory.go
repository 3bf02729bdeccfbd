// Package directory maps connection identities to the session group they joined.
//
// Bindings are persisted in the durable store under the connection id, so
// resolution survives a process restart whenever the store does. Liveness of
// the connections themselves is tracked elsewhere and is not persisted.
package directory

import (
	"context"
	"errors"

	"github.com/dmitrymomot/wavesync/pkg/kvstore"
)

var (
	// ErrNotBound is returned by Resolve for a connection without a binding.
	ErrNotBound = errors.New("directory: connection is not bound to a session group")
	// ErrInvalidBinding is returned for an empty connection id or shared data key.
	ErrInvalidBinding = errors.New("directory: connection id and shared data key are required")
)

// Directory is the session directory.
type Directory struct {
	store kvstore.Store
}

// New creates a directory backed by store.
func New(store kvstore.Store) *Directory {
	return &Directory{store: store}
}

// Bind records that connID joined sharedDataKey, replacing any prior binding.
func (d *Directory) Bind(ctx context.Context, connID, sharedDataKey string) error {
	if connID == "" || sharedDataKey == "" {
		return ErrInvalidBinding
	}
	return d.store.Set(ctx, kvstore.BindingKey(connID), sharedDataKey)
}

// Resolve returns the shared data key connID is bound to.
func (d *Directory) Resolve(ctx context.Context, connID string) (string, error) {
	if connID == "" {
		return "", ErrNotBound
	}
	key, err := d.store.Get(ctx, kvstore.BindingKey(connID))
	if kvstore.IsNotFound(err) {
		return "", ErrNotBound
	}
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", ErrNotBound
	}
	return key, nil
}

// Unbind removes the binding of connID. Unbinding an unbound connection is a no-op.
func (d *Directory) Unbind(ctx context.Context, connID string) error {
	if connID == "" {
		return nil
	}
	return d.store.Delete(ctx, kvstore.BindingKey(connID))
}
