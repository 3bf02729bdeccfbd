package syncserver

import (
	"context"

	"github.com/dmitrymomot/wavesync/pkg/statemachine"
)

// Phase is the lifecycle phase of a connection.
type Phase string

const (
	PhaseUnregistered Phase = "unregistered"
	PhaseRegistered   Phase = "registered"
	PhaseClosed       Phase = "closed"
)

func (p Phase) Name() string   { return string(p) }
func (p Phase) String() string { return string(p) }

type event string

const (
	eventRegister   event = "register"
	eventDelta      event = "delta"
	eventDisconnect event = "disconnect"
)

func (e event) Name() string   { return string(e) }
func (e event) String() string { return string(e) }

// newLifecycle builds the transition table shared by every session.
// A registered connection may register again; it is rebound to the new group.
func newLifecycle(m *metrics) *statemachine.Definition {
	return statemachine.NewBuilder(PhaseUnregistered).
		From(PhaseUnregistered, PhaseRegistered).When(eventRegister).To(PhaseRegistered).WithAction(m.trackPhase).Add().
		From(PhaseRegistered).When(eventDelta).To(PhaseRegistered).Add().
		From(PhaseUnregistered, PhaseRegistered).When(eventDisconnect).To(PhaseClosed).WithAction(m.trackPhase).Add().
		MustBuild()
}

// trackPhase keeps the registered gauge in step with phase changes.
func (m *metrics) trackPhase(_ context.Context, from, to statemachine.State, _ statemachine.Event, _ any) error {
	switch {
	case from != PhaseRegistered && to == PhaseRegistered:
		m.registered.Inc()
	case from == PhaseRegistered && to != PhaseRegistered:
		m.registered.Dec()
	}
	return nil
}

// session is the per-connection lifecycle machine plus the group it joined.
type session struct {
	machine *statemachine.Machine
	key     string
}

func (s *session) phase() Phase {
	return s.machine.Current().(Phase)
}
