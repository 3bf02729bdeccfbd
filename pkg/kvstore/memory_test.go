package kvstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wavesync/pkg/kvstore"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("get missing key", func(t *testing.T) {
		s := kvstore.NewMemory()
		_, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, kvstore.ErrNotFound)
		assert.True(t, kvstore.IsNotFound(err))
	})

	t.Run("set then get", func(t *testing.T) {
		s := kvstore.NewMemory()
		require.NoError(t, s.Set(ctx, "k", "v"))

		v, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", v)
	})

	t.Run("set overwrites", func(t *testing.T) {
		s := kvstore.NewMemory()
		require.NoError(t, s.Set(ctx, "k", "v1"))
		require.NoError(t, s.Set(ctx, "k", "v2"))

		v, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v2", v)
	})

	t.Run("delete", func(t *testing.T) {
		s := kvstore.NewMemory()
		require.NoError(t, s.Set(ctx, "k", "v"))
		require.NoError(t, s.Delete(ctx, "k"))
		require.NoError(t, s.Delete(ctx, "k"))

		_, err := s.Get(ctx, "k")
		assert.ErrorIs(t, err, kvstore.ErrNotFound)
	})

	t.Run("empty key", func(t *testing.T) {
		s := kvstore.NewMemory()
		assert.ErrorIs(t, s.Set(ctx, "", "v"), kvstore.ErrEmptyKey)
		_, err := s.Get(ctx, "")
		assert.ErrorIs(t, err, kvstore.ErrEmptyKey)
		assert.ErrorIs(t, s.Delete(ctx, ""), kvstore.ErrEmptyKey)
	})

	t.Run("clear", func(t *testing.T) {
		s := kvstore.NewMemory()
		require.NoError(t, s.Set(ctx, "a", "1"))
		require.NoError(t, s.Set(ctx, "b", "2"))
		require.NoError(t, s.Clear(ctx))
		assert.Equal(t, 0, s.Len())
	})

	t.Run("closed store", func(t *testing.T) {
		s := kvstore.NewMemory()
		require.NoError(t, s.Close())

		assert.ErrorIs(t, s.Ping(ctx), kvstore.ErrClosed)
		assert.ErrorIs(t, s.Set(ctx, "k", "v"), kvstore.ErrClosed)
		_, err := s.Get(ctx, "k")
		assert.ErrorIs(t, err, kvstore.ErrClosed)
	})
}

func TestHealthcheck(t *testing.T) {
	ctx := context.Background()

	s := kvstore.NewMemory()
	check := kvstore.Healthcheck(s)
	require.NoError(t, check(ctx))

	require.NoError(t, s.Close())
	err := check(ctx)
	assert.ErrorIs(t, err, kvstore.ErrHealthcheckFailed)
	assert.ErrorIs(t, err, kvstore.ErrClosed)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "doc-42_state", kvstore.StateKey("doc-42"))
	assert.Equal(t, "doc-42_participants", kvstore.ParticipantsKey("doc-42"))
	assert.Equal(t, "conn-1", kvstore.BindingKey("conn-1"))
}
