package statemachine

import (
	"errors"
	"fmt"
)

// Builder collects transitions for a Definition.
// Errors are accumulated and reported by Build.
type Builder struct {
	initial     State
	transitions []Transition
	errs        []error

	from    []State
	event   Event
	to      State
	actions []Action
}

// NewBuilder creates a builder for machines starting in initial.
func NewBuilder(initial State) *Builder {
	return &Builder{initial: initial}
}

// From starts a transition leaving any of states.
func (b *Builder) From(states ...State) *Builder {
	b.reset()
	b.from = states
	return b
}

// When sets the event of the current transition.
func (b *Builder) When(event Event) *Builder {
	b.event = event
	return b
}

// To sets the target state of the current transition.
func (b *Builder) To(state State) *Builder {
	b.to = state
	return b
}

// WithAction appends an action to the current transition.
func (b *Builder) WithAction(action Action) *Builder {
	if action != nil {
		b.actions = append(b.actions, action)
	}
	return b
}

// Add finalizes the current transition, one per From state.
func (b *Builder) Add() *Builder {
	if len(b.from) == 0 || b.to == nil || b.event == nil {
		b.errs = append(b.errs, ErrInvalidTransition)
		b.reset()
		return b
	}
	for _, from := range b.from {
		if from == nil {
			b.errs = append(b.errs, ErrInvalidTransition)
			continue
		}
		b.transitions = append(b.transitions, Transition{
			From:    from,
			To:      b.to,
			Event:   b.event,
			Actions: b.actions,
		})
	}
	b.reset()
	return b
}

// Build validates the collected transitions and returns the table.
func (b *Builder) Build() (*Definition, error) {
	if b.initial == nil {
		return nil, ErrNoInitialState
	}
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	def := &Definition{
		initial:     b.initial,
		transitions: make(map[string]map[string]Transition),
	}
	for _, t := range b.transitions {
		byEvent, ok := def.transitions[t.From.Name()]
		if !ok {
			byEvent = make(map[string]Transition)
			def.transitions[t.From.Name()] = byEvent
		}
		if _, dup := byEvent[t.Event.Name()]; dup {
			return nil, fmt.Errorf("%w: %s/%s", ErrDuplicateTransition, t.From.Name(), t.Event.Name())
		}
		byEvent[t.Event.Name()] = t
	}
	return def, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Definition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

func (b *Builder) reset() {
	b.from = nil
	b.event = nil
	b.to = nil
	b.actions = nil
}
