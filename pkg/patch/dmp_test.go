package patch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wavesync/pkg/patch"
)

func TestDMP_MakeApply(t *testing.T) {
	t.Parallel()

	engine := patch.NewDMP()

	tests := []struct {
		name    string
		oldText string
		newText string
	}{
		{name: "from empty", oldText: "", newText: "Hello"},
		{name: "to empty", oldText: "Hello", newText: ""},
		{name: "edit in the middle", oldText: "The quick fox", newText: "The quick brown fox"},
		{name: "non-ascii", oldText: "café", newText: "café au lait"},
		{name: "special characters", oldText: "a%b", newText: "a%b\n@@ -1 +1 @@"},
		{name: "unchanged", oldText: "same", newText: "same"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps, err := engine.Make(tt.oldText, tt.newText)
			require.NoError(t, err)

			got, applied, err := engine.Apply(ps, tt.oldText)
			require.NoError(t, err)
			assert.Equal(t, tt.newText, got)
			assert.True(t, patch.AllApplied(applied))
		})
	}
}

func TestDMP_EmptyPatchIsIdentity(t *testing.T) {
	t.Parallel()

	engine := patch.NewDMP()

	ps, err := engine.Make("abc", "abc")
	require.NoError(t, err)
	assert.True(t, ps.IsEmpty())

	got, applied, err := engine.Apply(ps, "xyz")
	require.NoError(t, err)
	assert.Equal(t, "xyz", got)
	assert.Empty(t, applied)
}

func TestDMP_ApplyToDivergentBase(t *testing.T) {
	t.Parallel()

	engine := patch.NewDMP()

	ps, err := engine.Make("Hello world", "Hello brave world")
	require.NoError(t, err)

	// Someone else appended text after the patch was computed.
	got, applied, err := engine.Apply(ps, "Hello world!!!")
	require.NoError(t, err)
	assert.Equal(t, "Hello brave world!!!", got)
	assert.True(t, patch.AllApplied(applied))
}

func TestDMP_ApplyMalformed(t *testing.T) {
	t.Parallel()

	engine := patch.NewDMP()

	got, _, err := engine.Apply(patch.PatchSet("@@ not a patch"), "base")
	require.ErrorIs(t, err, patch.ErrMalformedPatch)
	assert.Equal(t, "base", got)
}

func TestAllApplied(t *testing.T) {
	t.Parallel()

	assert.True(t, patch.AllApplied(nil))
	assert.True(t, patch.AllApplied([]bool{true, true}))
	assert.False(t, patch.AllApplied([]bool{true, false}))
}
