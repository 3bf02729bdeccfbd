package state

import (
	"maps"
	"slices"
)

// SharedState is the document of one session group.
type SharedState map[string]string

// Clone returns an independent copy.
func (s SharedState) Clone() SharedState {
	out := make(SharedState, len(s))
	maps.Copy(out, s)
	return out
}

// Keys returns the keys in sorted order.
func (s SharedState) Keys() []string {
	return slices.Sorted(maps.Keys(s))
}

// Delta maps keys to new full values. A nil value deletes the key.
type Delta map[string]*string

// Keys returns the keys in sorted order.
func (d Delta) Keys() []string {
	return slices.Sorted(maps.Keys(d))
}
