// Package participants persists the set of participants present in each
// session group.
//
// Each record remembers the connection that registered it so the record can be
// dropped when that connection goes away. Joining is first-writer-wins: a
// participant id that is already present is never overwritten, which makes a
// reconnect idempotent.
package participants

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"maps"

	"github.com/dmitrymomot/wavesync/pkg/kvstore"
	"github.com/dmitrymomot/wavesync/pkg/logger"
	"github.com/dmitrymomot/wavesync/pkg/protocol"
)

var (
	// ErrInvalidParticipant is returned by Add for a participant without an id.
	ErrInvalidParticipant = errors.New("participants: participant id is required")
	// ErrEmptySharedDataKey is returned when an operation has no session group.
	ErrEmptySharedDataKey = errors.New("participants: empty shared data key")
)

// Record is a participant together with the connection that owns it.
type Record struct {
	protocol.Participant
	ConnectionID string `json:"connectionId"`
}

// Set maps participant ids to records.
type Set map[string]Record

// Public returns the set as sent to clients, without owning connections.
func (s Set) Public() map[string]protocol.Participant {
	out := make(map[string]protocol.Participant, len(s))
	for id, rec := range s {
		out[id] = rec.Participant
	}
	return out
}

// OwnedBy returns the ids of the records owned by connID.
func (s Set) OwnedBy(connID string) []string {
	var ids []string
	for id, rec := range s {
		if rec.ConnectionID == connID {
			ids = append(ids, id)
		}
	}
	return ids
}

// Registry reads and writes one serialized Set per session group.
// Like the state adapter, it expects callers to serialize writes per group.
type Registry struct {
	store kvstore.Store
	log   *slog.Logger
}

// New creates a registry. A nil logger discards output.
func New(store kvstore.Store, log *slog.Logger) *Registry {
	if log == nil {
		log = logger.Discard()
	}
	return &Registry{store: store, log: log}
}

// Load returns the participants of sharedDataKey; empty when absent or unparsable.
func (r *Registry) Load(ctx context.Context, sharedDataKey string) (Set, error) {
	if sharedDataKey == "" {
		return nil, ErrEmptySharedDataKey
	}

	raw, err := r.store.Get(ctx, kvstore.ParticipantsKey(sharedDataKey))
	if kvstore.IsNotFound(err) {
		return Set{}, nil
	}
	if err != nil {
		return nil, err
	}

	set := Set{}
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		r.log.WarnContext(ctx, "discarding unparsable participant set",
			logger.SharedDataKey(sharedDataKey),
			logger.Error(err),
		)
		return Set{}, nil
	}
	return set, nil
}

func (r *Registry) save(ctx context.Context, sharedDataKey string, set Set) error {
	raw, err := json.Marshal(set)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, kvstore.ParticipantsKey(sharedDataKey), string(raw))
}

// Add records p as owned by connID unless p's id is already present.
// It returns the resulting set and whether it changed.
func (r *Registry) Add(ctx context.Context, sharedDataKey string, p protocol.Participant, connID string) (Set, bool, error) {
	if !p.Valid() {
		return nil, false, ErrInvalidParticipant
	}

	set, err := r.Load(ctx, sharedDataKey)
	if err != nil {
		return nil, false, err
	}
	if _, ok := set[p.ID()]; ok {
		return set, false, nil
	}

	next := maps.Clone(set)
	next[p.ID()] = Record{Participant: p, ConnectionID: connID}
	if err := r.save(ctx, sharedDataKey, next); err != nil {
		return nil, false, err
	}
	return next, true, nil
}

// RemoveByConnection drops every record owned by connID.
// It returns the resulting set and whether anything was removed.
func (r *Registry) RemoveByConnection(ctx context.Context, sharedDataKey, connID string) (Set, bool, error) {
	set, err := r.Load(ctx, sharedDataKey)
	if err != nil {
		return nil, false, err
	}

	owned := set.OwnedBy(connID)
	if len(owned) == 0 {
		return set, false, nil
	}

	next := maps.Clone(set)
	for _, id := range owned {
		delete(next, id)
	}
	if err := r.save(ctx, sharedDataKey, next); err != nil {
		return nil, false, err
	}
	return next, true, nil
}
