package fanout_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wavesync/pkg/directory"
	"github.com/dmitrymomot/wavesync/pkg/fanout"
	"github.com/dmitrymomot/wavesync/pkg/kvstore"
)

type recordingConn struct {
	id      string
	mu      sync.Mutex
	payload [][]byte
	fail    bool
}

func (c *recordingConn) ID() string { return c.id }

func (c *recordingConn) Send(_ context.Context, p []byte) error {
	if c.fail {
		return errors.New("closed")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payload = append(c.payload, p)
	return nil
}

func (c *recordingConn) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.payload...)
}

func setup(t *testing.T) (*fanout.Fanout, *directory.Directory) {
	t.Helper()
	dir := directory.New(kvstore.NewMemory())
	return fanout.New(dir), dir
}

func TestFanout_AddRemove(t *testing.T) {
	f, _ := setup(t)

	c := &recordingConn{id: "c1"}
	require.NoError(t, f.Add(c))
	assert.ErrorIs(t, f.Add(c), fanout.ErrDuplicateConnection)
	assert.ErrorIs(t, f.Add(&recordingConn{}), fanout.ErrInvalidConnection)
	assert.Equal(t, 1, f.Len())

	got, ok := f.Get("c1")
	require.True(t, ok)
	assert.Same(t, c, got)

	assert.True(t, f.Remove("c1"))
	assert.False(t, f.Remove("c1"))
	assert.Equal(t, 0, f.Len())
}

func TestFanout_BroadcastScoping(t *testing.T) {
	ctx := context.Background()
	f, dir := setup(t)

	a1 := &recordingConn{id: "a1"}
	a2 := &recordingConn{id: "a2"}
	b1 := &recordingConn{id: "b1"}
	unbound := &recordingConn{id: "u1"}
	for _, c := range []*recordingConn{a1, a2, b1, unbound} {
		require.NoError(t, f.Add(c))
	}
	require.NoError(t, dir.Bind(ctx, "a1", "A"))
	require.NoError(t, dir.Bind(ctx, "a2", "A"))
	require.NoError(t, dir.Bind(ctx, "b1", "B"))

	n := f.Broadcast(ctx, "A", []byte("hello A"))
	assert.Equal(t, 2, n)
	assert.Len(t, a1.received(), 1)
	assert.Len(t, a2.received(), 1)
	assert.Empty(t, b1.received())
	assert.Empty(t, unbound.received())
}

func TestFanout_BroadcastUsesCurrentBindings(t *testing.T) {
	ctx := context.Background()
	f, dir := setup(t)

	c := &recordingConn{id: "c1"}
	require.NoError(t, f.Add(c))
	require.NoError(t, dir.Bind(ctx, "c1", "A"))

	f.Broadcast(ctx, "A", []byte("1"))
	require.NoError(t, dir.Bind(ctx, "c1", "B"))
	f.Broadcast(ctx, "A", []byte("2"))
	f.Broadcast(ctx, "B", []byte("3"))

	assert.Equal(t, [][]byte{[]byte("1"), []byte("3")}, c.received())
}

func TestFanout_BroadcastSkipsRemovedAndFailing(t *testing.T) {
	ctx := context.Background()
	f, dir := setup(t)

	gone := &recordingConn{id: "gone"}
	broken := &recordingConn{id: "broken", fail: true}
	ok := &recordingConn{id: "ok"}
	for _, c := range []*recordingConn{gone, broken, ok} {
		require.NoError(t, f.Add(c))
		require.NoError(t, dir.Bind(ctx, c.id, "A"))
	}
	f.Remove("gone")

	n := f.Broadcast(ctx, "A", []byte("x"))
	assert.Equal(t, 1, n)
	assert.Empty(t, gone.received())
	assert.Len(t, ok.received(), 1)
}

func TestFanout_Send(t *testing.T) {
	ctx := context.Background()
	f, _ := setup(t)

	c := &recordingConn{id: "c1"}
	require.NoError(t, f.Add(c))
	require.NoError(t, f.Send(ctx, "c1", []byte("direct")))
	require.NoError(t, f.Send(ctx, "missing", []byte("dropped")))
	assert.Equal(t, [][]byte{[]byte("direct")}, c.received())
}

func TestFanout_ConcurrentMutation(t *testing.T) {
	ctx := context.Background()
	f, dir := setup(t)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := &recordingConn{id: string(rune('a'+i%26)) + string(rune('0'+i/26))}
			_ = f.Add(c)
			_ = dir.Bind(ctx, c.id, "A")
			f.Broadcast(ctx, "A", []byte("x"))
			f.Remove(c.id)
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, f.Len())
}
