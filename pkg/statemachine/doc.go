// Package statemachine implements small finite-state machines built from a
// shared transition table.
//
// A Definition is built once with a Builder and is safe for concurrent use.
// Each Machine created from it tracks its own current state, so one table can
// drive any number of independent entities:
//
//	const (
//	    Idle   = statemachine.StringState("idle")
//	    Active = statemachine.StringState("active")
//	    Start  = statemachine.StringEvent("start")
//	)
//
//	def, err := statemachine.NewBuilder(Idle).
//	    From(Idle).When(Start).To(Active).Add().
//	    Build()
//	if err != nil {
//	    return err
//	}
//
//	m := def.New()
//	if err := m.Fire(ctx, Start, nil); statemachine.IsNoTransitionAvailableError(err) {
//	    // event not allowed in the current state
//	}
//
// Actions attached to a transition run in order before the state changes.
// The first failing action aborts the transition and leaves the state as it was.
package statemachine
