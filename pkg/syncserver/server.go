package syncserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/wavesync/pkg/directory"
	"github.com/dmitrymomot/wavesync/pkg/fanout"
	"github.com/dmitrymomot/wavesync/pkg/kvstore"
	"github.com/dmitrymomot/wavesync/pkg/logger"
	"github.com/dmitrymomot/wavesync/pkg/participants"
	"github.com/dmitrymomot/wavesync/pkg/patch"
	"github.com/dmitrymomot/wavesync/pkg/protocol"
	"github.com/dmitrymomot/wavesync/pkg/state"
	"github.com/dmitrymomot/wavesync/pkg/statemachine"
)

// Server is the synchronization server.
type Server struct {
	store  kvstore.Store
	dir    *directory.Directory
	state  *state.Adapter
	roster *participants.Registry
	fan    *fanout.Fanout
	locks  *keyedMutex
	log    *slog.Logger

	clearOnStart         bool
	broadcastConcurrency int
	registerer           prometheus.Registerer

	metrics   *metrics
	lifecycle *statemachine.Definition

	mu       sync.RWMutex
	sessions map[string]*session
	stopped  bool
}

// New creates a server persisting to store and diffing with engine.
func New(store kvstore.Store, engine patch.Engine, opts ...Option) *Server {
	s := &Server{
		store:                store,
		locks:                newKeyedMutex(),
		log:                  logger.Discard(),
		broadcastConcurrency: 8,
		sessions:             make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registerer == nil {
		s.registerer = prometheus.NewRegistry()
	}

	s.metrics = newMetrics(s.registerer)
	s.lifecycle = newLifecycle(s.metrics)
	s.dir = directory.New(store)
	s.state = state.New(store, engine, state.WithLogger(s.log))
	s.roster = participants.New(store, s.log)
	s.fan = fanout.New(s.dir,
		fanout.WithLogger(s.log),
		fanout.WithConcurrency(s.broadcastConcurrency),
	)
	return s
}

// Start verifies the durable store is reachable and clears it when configured.
func (s *Server) Start(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if s.clearOnStart {
		if err := s.store.Clear(ctx); err != nil {
			return errors.Join(ErrStoreUnavailable, err)
		}
		s.log.InfoContext(ctx, "durable store cleared")
	}

	s.mu.Lock()
	s.stopped = false
	s.mu.Unlock()

	s.log.InfoContext(ctx, "sync server started")
	return nil
}

// Stop refuses new connections and disconnects the live ones, removing their
// bindings and participant records.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = true
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	var errs []error
	for _, id := range ids {
		if err := s.Disconnect(ctx, id); err != nil && !errors.Is(err, ErrUnknownConnection) {
			errs = append(errs, err)
		}
	}

	s.log.InfoContext(ctx, "sync server stopped", slog.Int("disconnected", len(ids)))
	return errors.Join(errs...)
}

// Connect adds a live connection in the unregistered phase.
func (s *Server) Connect(conn fanout.Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrServerStopped
	}
	if err := s.fan.Add(conn); err != nil {
		return err
	}
	s.sessions[conn.ID()] = &session{machine: s.lifecycle.New()}
	s.metrics.connections.Inc()
	return nil
}

func (s *Server) removeConn(connID string) {
	if s.fan.Remove(connID) {
		s.metrics.connections.Dec()
	}
}

// Phase returns the lifecycle phase of connID.
func (s *Server) Phase(connID string) (Phase, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[connID]
	if !ok {
		return PhaseClosed, false
	}
	return sess.phase(), true
}

// transition fires ev on connID's machine and returns the phase and key it
// held before.
func (s *Server) transition(ctx context.Context, connID string, ev event, key string) (Phase, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[connID]
	if !ok {
		return PhaseClosed, "", ErrUnknownConnection
	}

	prevPhase, prevKey := sess.phase(), sess.key
	if err := sess.machine.Fire(ctx, ev, nil); err != nil {
		if statemachine.IsNoTransitionAvailableError(err) {
			return prevPhase, prevKey, fmt.Errorf("%w: %s while %s", ErrInvalidTransition, ev, prevPhase)
		}
		return prevPhase, prevKey, err
	}
	if ev == eventRegister {
		sess.key = key
	}
	if sess.phase() == PhaseClosed {
		delete(s.sessions, connID)
	}
	return prevPhase, prevKey, nil
}

// HandleMessage decodes one inbound payload and dispatches it.
// Malformed or out-of-phase messages are logged and dropped.
func (s *Server) HandleMessage(ctx context.Context, connID string, payload []byte) error {
	ctx = logger.WithConnectionID(ctx, connID)

	msg, err := protocol.DecodeInbound(payload)
	if err != nil {
		s.metrics.dropped.Inc()
		s.log.WarnContext(ctx, "dropping malformed message", logger.Error(err))
		return errors.Join(ErrMessageDropped, err)
	}

	switch m := msg.(type) {
	case protocol.Registration:
		err = s.Register(ctx, connID, m)
	case protocol.DeltaSubmission:
		err = s.SubmitDelta(ctx, connID, state.Delta(m.Delta))
	default:
		err = protocol.ErrUnknownMessageType
	}
	if err != nil {
		s.metrics.dropped.Inc()
		return errors.Join(ErrMessageDropped, err)
	}
	return nil
}

// Register binds connID to the registration's session group, sends it the
// current state and participants, and announces the viewer to the group.
func (s *Server) Register(ctx context.Context, connID string, reg protocol.Registration) error {
	ctx = logger.WithConnectionID(ctx, connID)
	key := reg.SharedDataKey
	log := s.log.With(logger.SharedDataKey(key))

	if key == "" || !reg.Viewer.Valid() {
		log.WarnContext(ctx, "dropping incomplete registration")
		return protocol.ErrMalformedMessage
	}

	s.mu.RLock()
	sess, ok := s.sessions[connID]
	s.mu.RUnlock()
	if !ok {
		return ErrUnknownConnection
	}
	if !sess.machine.CanFire(eventRegister) {
		log.DebugContext(ctx, "dropping registration", slog.String("phase", sess.phase().String()))
		return ErrInvalidTransition
	}

	unlock := s.locks.Lock(key)
	err := s.join(ctx, log, connID, key, reg.Viewer)
	unlock()
	if err != nil {
		log.ErrorContext(ctx, "registration failed", logger.Error(err))
		return err
	}

	prevPhase, prevKey, err := s.transition(ctx, connID, eventRegister, key)
	if err != nil {
		// Disconnected while joining.
		_ = s.dir.Unbind(ctx, connID)
		s.leave(ctx, connID, key)
		return err
	}
	s.metrics.registrations.Inc()
	log.InfoContext(ctx, "connection registered", logger.ParticipantID(reg.Viewer.ID()))

	if prevPhase == PhaseRegistered && prevKey != "" && prevKey != key {
		s.leave(ctx, connID, prevKey)
	}
	return nil
}

func (s *Server) join(ctx context.Context, log *slog.Logger, connID, key string, viewer protocol.Participant) error {
	if err := s.dir.Bind(ctx, connID, key); err != nil {
		return err
	}

	current, err := s.state.Load(ctx, key)
	if err != nil {
		return err
	}
	initial, err := s.state.InitialPatches(current)
	if err != nil {
		return err
	}
	payload, err := protocol.EncodeState(initial)
	if err != nil {
		return err
	}
	if err := s.fan.Send(ctx, connID, payload); err != nil {
		log.DebugContext(ctx, "initial state not delivered", logger.Error(err))
	}

	set, changed, err := s.roster.Add(ctx, key, viewer, connID)
	if err != nil {
		return err
	}
	payload, err = protocol.EncodeParticipants(set.Public())
	if err != nil {
		return err
	}
	if changed {
		s.broadcast(ctx, key, payload)
		return nil
	}
	if err := s.fan.Send(ctx, connID, payload); err != nil {
		log.DebugContext(ctx, "participants not delivered", logger.Error(err))
	}
	return nil
}

// leave drops connID's participant records from key and announces the change.
func (s *Server) leave(ctx context.Context, connID, key string) {
	log := s.log.With(logger.SharedDataKey(key))

	unlock := s.locks.Lock(key)
	defer unlock()

	set, changed, err := s.roster.RemoveByConnection(ctx, key, connID)
	if err != nil {
		log.ErrorContext(ctx, "failed to remove participants", logger.Error(err))
		return
	}
	if !changed {
		return
	}
	payload, err := protocol.EncodeParticipants(set.Public())
	if err != nil {
		log.ErrorContext(ctx, "failed to encode participants", logger.Error(err))
		return
	}
	s.broadcast(ctx, key, payload)
}

// SubmitDelta applies delta to the group connID is bound to and broadcasts
// the resulting patches to every member, the sender included.
func (s *Server) SubmitDelta(ctx context.Context, connID string, delta state.Delta) error {
	ctx = logger.WithConnectionID(ctx, connID)

	if _, _, err := s.transition(ctx, connID, eventDelta, ""); err != nil {
		s.log.DebugContext(ctx, "dropping delta", logger.Error(err))
		return err
	}

	key, err := s.dir.Resolve(ctx, connID)
	if errors.Is(err, directory.ErrNotBound) {
		s.log.DebugContext(ctx, "dropping delta from unbound connection")
		return ErrUnresolvedSession
	}
	if err != nil {
		s.log.ErrorContext(ctx, "failed to resolve session", logger.Error(err))
		return err
	}
	log := s.log.With(logger.SharedDataKey(key))

	unlock := s.locks.Lock(key)
	defer unlock()

	patches, err := s.state.ApplyDelta(ctx, key, delta)
	if err != nil {
		log.ErrorContext(ctx, "failed to apply delta", logger.Error(err))
		return err
	}
	s.metrics.deltas.Inc()

	payload, err := protocol.EncodeState(patches)
	if err != nil {
		return err
	}
	s.broadcast(ctx, key, payload)
	return nil
}

// Disconnect closes connID: its binding and participant records are removed,
// the remaining group members are told, and the connection leaves the fan-out.
func (s *Server) Disconnect(ctx context.Context, connID string) error {
	ctx = logger.WithConnectionID(ctx, connID)

	if _, _, err := s.transition(ctx, connID, eventDisconnect, ""); err != nil {
		s.removeConn(connID)
		return err
	}
	defer s.removeConn(connID)

	key, err := s.dir.Resolve(ctx, connID)
	if errors.Is(err, directory.ErrNotBound) {
		s.log.DebugContext(ctx, "disconnected before registration")
		return nil
	}
	if err != nil {
		s.log.ErrorContext(ctx, "failed to resolve session", logger.Error(err))
		return err
	}

	if err := s.dir.Unbind(ctx, connID); err != nil {
		s.log.ErrorContext(ctx, "failed to unbind connection",
			logger.SharedDataKey(key),
			logger.Error(err),
		)
	}
	s.leave(ctx, connID, key)

	s.log.InfoContext(ctx, "connection closed", logger.SharedDataKey(key))
	return nil
}

func (s *Server) broadcast(ctx context.Context, key string, payload []byte) {
	n := s.fan.Broadcast(ctx, key, payload)
	s.metrics.broadcasts.Inc()
	s.log.DebugContext(ctx, "broadcast",
		logger.SharedDataKey(key),
		slog.Int("recipients", n),
	)
}
