package state

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/wavesync/pkg/kvstore"
	"github.com/dmitrymomot/wavesync/pkg/logger"
	"github.com/dmitrymomot/wavesync/pkg/patch"
)

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.log = l
		}
	}
}

// Adapter reads and writes one serialized SharedState record per session group.
// It does not serialize concurrent ApplyDelta calls for the same group; callers
// must do so to avoid lost updates.
type Adapter struct {
	store  kvstore.Store
	engine patch.Engine
	log    *slog.Logger
}

// New creates an adapter.
func New(store kvstore.Store, engine patch.Engine, opts ...Option) *Adapter {
	a := &Adapter{
		store:  store,
		engine: engine,
		log:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load returns the state of sharedDataKey. A missing or unparsable record
// yields an empty state; any other store failure is returned.
func (a *Adapter) Load(ctx context.Context, sharedDataKey string) (SharedState, error) {
	if sharedDataKey == "" {
		return nil, ErrEmptySharedDataKey
	}

	raw, err := a.store.Get(ctx, kvstore.StateKey(sharedDataKey))
	if kvstore.IsNotFound(err) {
		return SharedState{}, nil
	}
	if err != nil {
		return nil, err
	}

	// Older records may hold null for deleted keys.
	var decoded map[string]*string
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		a.log.WarnContext(ctx, "discarding unparsable shared state",
			logger.SharedDataKey(sharedDataKey),
			logger.Error(err),
		)
		return SharedState{}, nil
	}

	st := make(SharedState, len(decoded))
	for k, v := range decoded {
		if v != nil {
			st[k] = *v
		}
	}
	return st, nil
}

// Save overwrites the state of sharedDataKey.
func (a *Adapter) Save(ctx context.Context, sharedDataKey string, st SharedState) error {
	if sharedDataKey == "" {
		return ErrEmptySharedDataKey
	}
	if st == nil {
		st = SharedState{}
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, kvstore.StateKey(sharedDataKey), string(raw))
}

// ApplyDelta merges delta into the stored state of sharedDataKey and returns
// the patches actually applied, one per delta key. Deleted keys map to nil.
func (a *Adapter) ApplyDelta(ctx context.Context, sharedDataKey string, delta Delta) (patch.Patches, error) {
	st, err := a.Load(ctx, sharedDataKey)
	if err != nil {
		return nil, err
	}

	applied := make(patch.Patches, len(delta))
	for _, key := range delta.Keys() {
		value := delta[key]
		if value == nil {
			delete(st, key)
			applied[key] = nil
			continue
		}

		current := st[key]
		ps, err := a.engine.Make(current, *value)
		if err != nil {
			return nil, errors.Join(ErrPatchFailed, err)
		}
		text, results, err := a.engine.Apply(ps, current)
		if err != nil {
			return nil, errors.Join(ErrPatchFailed, err)
		}
		if !patch.AllApplied(results) {
			// The engine's best-effort text is authoritative.
			a.log.DebugContext(ctx, "patch applied partially",
				logger.SharedDataKey(sharedDataKey),
				slog.String("key", key),
			)
		}
		st[key] = text
		applied[key] = &ps
	}

	if err := a.Save(ctx, sharedDataKey, st); err != nil {
		return nil, err
	}
	return applied, nil
}

// InitialPatches returns, for every key of st, the patch from the empty string
// to its value. Replaying them into an empty mirror reconstructs st.
func (a *Adapter) InitialPatches(st SharedState) (patch.Patches, error) {
	return InitialPatches(a.engine, st)
}

// InitialPatches is the engine-level form of Adapter.InitialPatches.
func InitialPatches(engine patch.Engine, st SharedState) (patch.Patches, error) {
	out := make(patch.Patches, len(st))
	for _, key := range st.Keys() {
		ps, err := engine.Make("", st[key])
		if err != nil {
			return nil, errors.Join(ErrPatchFailed, err)
		}
		out[key] = &ps
	}
	return out, nil
}
