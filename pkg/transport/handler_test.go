package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wavesync/pkg/kvstore"
	"github.com/dmitrymomot/wavesync/pkg/patch"
	"github.com/dmitrymomot/wavesync/pkg/protocol"
	"github.com/dmitrymomot/wavesync/pkg/syncserver"
	"github.com/dmitrymomot/wavesync/pkg/transport"
)

func startServer(t *testing.T, opts ...transport.Option) (*syncserver.Server, string) {
	t.Helper()

	srv := syncserver.New(kvstore.NewMemory(), patch.NewDMP())
	require.NoError(t, srv.Start(context.Background()))

	var n atomic.Int64
	opts = append([]transport.Option{transport.WithIDGenerator(func() string {
		return "conn-" + string(rune('0'+n.Add(1)))
	})}, opts...)

	ts := httptest.NewServer(transport.New(srv, opts...))
	t.Cleanup(ts.Close)

	return srv, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func read(t *testing.T, ws *websocket.Conn) protocol.Outbound {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := ws.ReadMessage()
	require.NoError(t, err)
	msg, err := protocol.DecodeOutbound(payload)
	require.NoError(t, err)
	return msg
}

func TestHandler_RegisterAndSubmit(t *testing.T) {
	_, url := startServer(t)
	ws := dial(t, url)

	reg, err := protocol.EncodeRegistration("doc", protocol.Participant{ParticipantID: "u1", DisplayName: "Ann"})
	require.NoError(t, err)
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, reg))

	initial, ok := read(t, ws).(protocol.StateUpdate)
	require.True(t, ok)
	assert.Empty(t, initial.Data)

	people, ok := read(t, ws).(protocol.ParticipantsUpdate)
	require.True(t, ok)
	assert.Contains(t, people.Data, "u1")

	// Malformed input is dropped without closing the connection.
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"nope":true}`)))

	title := "Hello"
	delta, err := protocol.EncodeDelta(map[string]*string{"title": &title})
	require.NoError(t, err)
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, delta))

	update, ok := read(t, ws).(protocol.StateUpdate)
	require.True(t, ok)
	assert.Contains(t, update.Data, "title")
}

func TestHandler_DisconnectCleansUp(t *testing.T) {
	srv, url := startServer(t)
	ws := dial(t, url)

	require.Eventually(t, func() bool { return srv.Stats().Connections == 1 }, time.Second, 10*time.Millisecond)

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")
	require.NoError(t, ws.WriteMessage(websocket.CloseMessage, msg))
	_ = ws.Close()

	assert.Eventually(t, func() bool { return srv.Stats().Connections == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHandler_RejectsOrigin(t *testing.T) {
	_, url := startServer(t, transport.WithAllowedOrigins("https://app.example"))

	header := http.Header{}
	header.Set("Origin", "https://evil.example")
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHandler_IdleTimeout(t *testing.T) {
	srv, url := startServer(t, transport.WithIdleTimeout(100*time.Millisecond))

	ws := dial(t, url)
	// Never reading means pings are never answered.
	_ = ws

	require.Eventually(t, func() bool { return srv.Stats().Connections == 1 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return srv.Stats().Connections == 0 }, 2*time.Second, 20*time.Millisecond)
}
