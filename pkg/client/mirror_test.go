package client_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wavesync/pkg/client"
	"github.com/dmitrymomot/wavesync/pkg/patch"
	"github.com/dmitrymomot/wavesync/pkg/protocol"
	"github.com/dmitrymomot/wavesync/pkg/state"
)

func TestMirror_ApplyState(t *testing.T) {
	engine := patch.NewDMP()
	m := client.NewMirror(engine)

	var seen []state.SharedState
	m.OnStateChange(func(st state.SharedState) { seen = append(seen, st) })

	hello, err := engine.Make("", "Hello")
	require.NoError(t, err)
	require.NoError(t, m.ApplyState(patch.Patches{"title": &hello, "gone": nil}))

	assert.Equal(t, "Hello", m.Get("title", ""))
	assert.Equal(t, "fallback", m.Get("missing", "fallback"))
	assert.Equal(t, []string{"title"}, m.Keys())

	require.NoError(t, m.ApplyState(patch.Patches{"title": nil}))
	assert.Empty(t, m.Keys())

	require.Len(t, seen, 2)
	assert.Equal(t, state.SharedState{"title": "Hello"}, seen[0])
	assert.Empty(t, seen[1])
}

func TestMirror_ApplyStateMalformed(t *testing.T) {
	m := client.NewMirror(patch.NewDMP())

	bad := patch.PatchSet("not a patch")
	err := m.ApplyState(patch.Patches{"k": &bad})
	assert.ErrorIs(t, err, patch.ErrMalformedPatch)
	assert.Empty(t, m.Keys())
}

func TestMirror_Participants(t *testing.T) {
	m := client.NewMirror(patch.NewDMP())

	var calls int
	m.OnParticipantsChange(func(map[string]protocol.Participant) { calls++ })

	m.SetParticipants(map[string]protocol.Participant{
		"u1": {ParticipantID: "u1", DisplayName: "Ann"},
	})
	p, ok := m.Participant("u1")
	require.True(t, ok)
	assert.Equal(t, "Ann", p.DisplayName)

	snapshot := m.Participants()
	delete(snapshot, "u1")
	_, ok = m.Participant("u1")
	assert.True(t, ok, "returned map is a copy")

	m.SetParticipants(nil)
	assert.Empty(t, m.Participants())
	assert.Equal(t, 2, calls)
}
