package statemachine

import "context"

// State is a node of the machine. States are compared by Name.
type State interface {
	Name() string
}

// Event triggers a transition. Events are compared by Name.
type Event interface {
	Name() string
}

// StringState is a State backed by a string.
type StringState string

func (s StringState) Name() string { return string(s) }

// StringEvent is an Event backed by a string.
type StringEvent string

func (e StringEvent) Name() string { return string(e) }

// Action runs while a transition is taken.
type Action func(ctx context.Context, from, to State, event Event, data any) error

// Transition moves the machine From one state To another on Event.
type Transition struct {
	From    State
	To      State
	Event   Event
	Actions []Action
}
