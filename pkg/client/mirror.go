package client

import (
	"maps"
	"slices"
	"sync"

	"github.com/dmitrymomot/wavesync/pkg/patch"
	"github.com/dmitrymomot/wavesync/pkg/protocol"
	"github.com/dmitrymomot/wavesync/pkg/state"
)

// Mirror is a local replica of a session group.
type Mirror struct {
	engine patch.Engine

	mu           sync.RWMutex
	state        state.SharedState
	participants map[string]protocol.Participant

	hooksMu        sync.RWMutex
	onState        []func(state.SharedState)
	onParticipants []func(map[string]protocol.Participant)
}

// NewMirror creates an empty mirror replaying patches with engine.
func NewMirror(engine patch.Engine) *Mirror {
	return &Mirror{
		engine:       engine,
		state:        state.SharedState{},
		participants: map[string]protocol.Participant{},
	}
}

// ApplyState replays patches into the mirror and notifies state listeners.
// Keys whose patch cannot be decoded keep their value.
func (m *Mirror) ApplyState(patches patch.Patches) error {
	m.mu.Lock()
	err := state.Replay(m.engine, m.state, patches)
	snapshot := m.state.Clone()
	m.mu.Unlock()

	m.hooksMu.RLock()
	hooks := slices.Clone(m.onState)
	m.hooksMu.RUnlock()
	for _, fn := range hooks {
		fn(snapshot)
	}
	return err
}

// SetParticipants replaces the participant set and notifies listeners.
func (m *Mirror) SetParticipants(set map[string]protocol.Participant) {
	next := maps.Clone(set)
	if next == nil {
		next = map[string]protocol.Participant{}
	}

	m.mu.Lock()
	m.participants = next
	m.mu.Unlock()

	m.hooksMu.RLock()
	hooks := slices.Clone(m.onParticipants)
	m.hooksMu.RUnlock()
	for _, fn := range hooks {
		fn(maps.Clone(next))
	}
}

// Get returns the value of key, or def when absent.
func (m *Mirror) Get(key, def string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.state[key]; ok {
		return v
	}
	return def
}

// Keys returns the keys of the shared state in sorted order.
func (m *Mirror) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Keys()
}

// State returns a copy of the shared state.
func (m *Mirror) State() state.SharedState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Clone()
}

// Participants returns a copy of the participant set.
func (m *Mirror) Participants() map[string]protocol.Participant {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.participants)
}

// Participant looks up one participant by id.
func (m *Mirror) Participant(id string) (protocol.Participant, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.participants[id]
	return p, ok
}

// OnStateChange registers fn to run after every applied state message.
func (m *Mirror) OnStateChange(fn func(state.SharedState)) {
	m.hooksMu.Lock()
	defer m.hooksMu.Unlock()
	m.onState = append(m.onState, fn)
}

// OnParticipantsChange registers fn to run after every participants message.
func (m *Mirror) OnParticipantsChange(fn func(map[string]protocol.Participant)) {
	m.hooksMu.Lock()
	defer m.hooksMu.Unlock()
	m.onParticipants = append(m.onParticipants, fn)
}
