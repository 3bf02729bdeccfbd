package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// Definition is an immutable transition table.
type Definition struct {
	initial     State
	transitions map[string]map[string]Transition
}

// Initial returns the state new machines start in.
func (d *Definition) Initial() State {
	return d.initial
}

// New returns a machine in the initial state.
func (d *Definition) New() *Machine {
	return &Machine{def: d, current: d.initial}
}

func (d *Definition) lookup(from State, event Event) (Transition, bool) {
	t, ok := d.transitions[from.Name()][event.Name()]
	return t, ok
}

// Machine is one running instance of a Definition.
type Machine struct {
	def     *Definition
	mu      sync.Mutex
	current State
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// CanFire reports whether event has a transition from the current state.
func (m *Machine) CanFire(event Event) bool {
	if event == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.def.lookup(m.current, event)
	return ok
}

// Fire takes the transition for event, running its actions first.
// Transitions on the same machine are serialized.
func (m *Machine) Fire(ctx context.Context, event Event, data any) error {
	if event == nil {
		return ErrInvalidEvent
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.def.lookup(m.current, event)
	if !ok {
		return NewErrNoTransitionAvailable(m.current.Name(), event.Name())
	}
	for _, action := range t.Actions {
		if err := action(ctx, t.From, t.To, event, data); err != nil {
			return fmt.Errorf("action failed: %w", err)
		}
	}
	m.current = t.To
	return nil
}
