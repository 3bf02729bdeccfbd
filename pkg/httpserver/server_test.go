package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wavesync/pkg/config"
	"github.com/dmitrymomot/wavesync/pkg/httpserver"
)

func TestServer_RunAndShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var started, stopped bool
	srv := httpserver.New(
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithStartHook(func(context.Context) error { started = true; return nil }),
		httpserver.WithStopHook(func(context.Context) error { stopped = true; return nil }),
	)

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, handler) }()

	require.Eventually(t, func() bool { return srv.Addr() != nil }, time.Second, 5*time.Millisecond)

	resp, err := http.Get("http://" + srv.Addr().String())
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "pong", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}

	assert.True(t, started)
	assert.True(t, stopped)
	require.NoError(t, srv.Shutdown(context.Background()))
}

func TestServer_RunTwice(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"))
	go func() { _ = srv.Run(ctx, nil) }()
	require.Eventually(t, func() bool { return srv.Addr() != nil }, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, srv.Run(ctx, nil), httpserver.ErrAlreadyRunning)
}

func TestServer_StartHookFailure(t *testing.T) {
	srv := httpserver.New(
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithStartHook(func(context.Context) error { return errors.New("store down") }),
	)
	err := srv.Run(context.Background(), nil)
	assert.ErrorIs(t, err, httpserver.ErrStart)
}

func TestServer_ListenFailure(t *testing.T) {
	srv := httpserver.New(httpserver.WithAddr("256.0.0.1:0"))
	err := srv.Run(context.Background(), nil)
	assert.ErrorIs(t, err, httpserver.ErrStart)
}

func TestOptionPanics(t *testing.T) {
	assert.Panics(t, func() { httpserver.WithAddr("") })
	assert.Panics(t, func() { httpserver.WithShutdownTimeout(0) })
	assert.Panics(t, func() { httpserver.WithStartHook(nil) })
	assert.Panics(t, func() { httpserver.WithStopHook(nil) })
}

func TestFromConfig(t *testing.T) {
	opts := httpserver.FromConfig(config.HTTP{Addr: ":9090", ShutdownTimeout: time.Second})
	assert.Len(t, opts, 2)
	assert.Empty(t, httpserver.FromConfig(config.HTTP{}))
}

func TestLivenessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	httpserver.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALIVE", rec.Body.String())
}

func TestReadinessHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	fail := func(context.Context) error { return errors.New("unreachable") }

	t.Run("ready", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h := httpserver.ReadinessHandler(nil, time.Second, map[string]httpserver.Check{"store": ok})
		h(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "READY", body["status"])
	})

	t.Run("not ready", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h := httpserver.ReadinessHandler(nil, time.Second, map[string]httpserver.Check{"store": ok, "other": fail})
		h(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "NOT_READY", body.Status)
		assert.Equal(t, "ok", body.Checks["store"])
		assert.Equal(t, "unreachable", body.Checks["other"])
	})
}
