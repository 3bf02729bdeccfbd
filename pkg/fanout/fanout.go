package fanout

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/wavesync/pkg/directory"
	"github.com/dmitrymomot/wavesync/pkg/logger"
)

// Conn is a live connection able to receive payloads.
type Conn interface {
	ID() string
	// Send queues payload for delivery. It must not block on slow peers.
	Send(ctx context.Context, payload []byte) error
}

// Resolver resolves the session group a connection is bound to.
type Resolver interface {
	Resolve(ctx context.Context, connID string) (string, error)
}

// Option configures a Fanout.
type Option func(*Fanout)

// WithLogger sets the logger. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fanout) {
		if l != nil {
			f.log = l
		}
	}
}

// WithConcurrency bounds how many bindings are resolved in parallel during a
// broadcast. Values below 1 mean sequential resolution.
func WithConcurrency(n int) Option {
	return func(f *Fanout) {
		f.concurrency = max(n, 1)
	}
}

// Fanout tracks live connections and broadcasts to session groups.
// All methods are safe for concurrent use.
type Fanout struct {
	mu          sync.RWMutex
	conns       map[string]Conn
	resolver    Resolver
	log         *slog.Logger
	concurrency int
}

// New creates an empty fan-out.
func New(resolver Resolver, opts ...Option) *Fanout {
	f := &Fanout{
		conns:       make(map[string]Conn),
		resolver:    resolver,
		log:         logger.Discard(),
		concurrency: 8,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Add registers a live connection.
func (f *Fanout) Add(c Conn) error {
	if c == nil || c.ID() == "" {
		return ErrInvalidConnection
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.conns[c.ID()]; ok {
		return ErrDuplicateConnection
	}
	f.conns[c.ID()] = c
	return nil
}

// Remove drops a live connection and reports whether it was present.
func (f *Fanout) Remove(connID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.conns[connID]; !ok {
		return false
	}
	delete(f.conns, connID)
	return true
}

// Get returns the live connection with the given id.
func (f *Fanout) Get(connID string) (Conn, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	c, ok := f.conns[connID]
	return c, ok
}

// Len returns the number of live connections.
func (f *Fanout) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.conns)
}

// Snapshot returns the live connections at the time of the call.
func (f *Fanout) Snapshot() []Conn {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]Conn, 0, len(f.conns))
	for _, c := range f.conns {
		out = append(out, c)
	}
	return out
}

// Send delivers payload to a single live connection.
func (f *Fanout) Send(ctx context.Context, connID string, payload []byte) error {
	c, ok := f.Get(connID)
	if !ok {
		return nil
	}
	return c.Send(ctx, payload)
}

// Broadcast delivers payload to every live connection bound to sharedDataKey
// and returns how many accepted it. Connections whose binding cannot be
// resolved, or whose send fails, are skipped.
func (f *Fanout) Broadcast(ctx context.Context, sharedDataKey string, payload []byte) int {
	targets := f.Snapshot()
	if len(targets) == 0 {
		return 0
	}

	var (
		mu        sync.Mutex
		delivered int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for _, c := range targets {
		g.Go(func() error {
			key, err := f.resolver.Resolve(gctx, c.ID())
			if err != nil {
				if !errors.Is(err, directory.ErrNotBound) {
					f.log.WarnContext(ctx, "failed to resolve binding for broadcast",
						logger.ConnectionID(c.ID()),
						logger.Error(err),
					)
				}
				return nil
			}
			if key != sharedDataKey {
				return nil
			}
			if err := c.Send(ctx, payload); err != nil {
				f.log.DebugContext(ctx, "broadcast send failed",
					logger.ConnectionID(c.ID()),
					logger.SharedDataKey(sharedDataKey),
					logger.Error(err),
				)
				return nil
			}
			mu.Lock()
			delivered++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return delivered
}
