package transport

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConn_Send(t *testing.T) {
	ctx := context.Background()
	c := newConn("c1", nil, 2)

	require.NoError(t, c.Send(ctx, []byte("1")))
	require.NoError(t, c.Send(ctx, []byte("2")))
	assert.ErrorIs(t, c.Send(ctx, []byte("3")), ErrSendQueueFull)

	assert.Equal(t, []byte("1"), <-c.send)
	require.NoError(t, c.Send(ctx, []byte("3")))

	c.close()
	c.close()
	assert.ErrorIs(t, c.Send(ctx, []byte("4")), ErrConnectionClosed)
}

func TestHandler_CheckOrigin(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"no restriction", nil, "https://evil.example", true},
		{"wildcard", []string{"*"}, "https://evil.example", true},
		{"listed", []string{"https://app.example"}, "https://APP.example", true},
		{"not listed", []string{"https://app.example"}, "https://evil.example", false},
		{"no origin header", []string{"https://app.example"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(nil, WithAllowedOrigins(tt.allowed...))
			r, err := http.NewRequest(http.MethodGet, "/ws", nil)
			require.NoError(t, err)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, h.checkOrigin(r))
		})
	}
}
