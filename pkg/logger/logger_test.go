package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wavesync/pkg/logger"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestNew_JSONWithContextExtractor(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithContextExtractors(logger.ConnectionIDExtractor()),
	)

	ctx := logger.WithConnectionID(context.Background(), "c1")
	log.InfoContext(ctx, "registered", logger.SharedDataKey("doc-42"), logger.ParticipantID("u1"))

	rec := decodeLine(t, &buf)
	assert.Equal(t, "registered", rec["msg"])
	assert.Equal(t, "c1", rec["connection_id"])
	assert.Equal(t, "doc-42", rec["shared_data_key"])
	assert.Equal(t, "u1", rec["participant_id"])
}

func TestContextHandler_CallerAttrsWin(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(logger.NewContextHandler(
		slog.NewJSONHandler(&buf, nil),
		logger.ConnectionIDExtractor(),
	))
	ctx := logger.WithConnectionID(context.Background(), "sender")

	t.Run("record attr", func(t *testing.T) {
		buf.Reset()
		log.InfoContext(ctx, "send failed", logger.ConnectionID("recipient"))

		assert.Equal(t, 1, strings.Count(buf.String(), `"connection_id"`))
		assert.Equal(t, "recipient", decodeLine(t, &buf)["connection_id"])
	})

	t.Run("bound attr", func(t *testing.T) {
		buf.Reset()
		log.With(logger.ConnectionID("recipient")).InfoContext(ctx, "send failed")

		assert.Equal(t, 1, strings.Count(buf.String(), `"connection_id"`))
		assert.Equal(t, "recipient", decodeLine(t, &buf)["connection_id"])
	})

	t.Run("extracted when absent", func(t *testing.T) {
		buf.Reset()
		log.With(logger.SharedDataKey("doc")).InfoContext(ctx, "registered")

		rec := decodeLine(t, &buf)
		assert.Equal(t, "sender", rec["connection_id"])
		assert.Equal(t, "doc", rec["shared_data_key"])
	})

	t.Run("group scope", func(t *testing.T) {
		buf.Reset()
		log.With(logger.ConnectionID("outer")).WithGroup("fanout").InfoContext(ctx, "broadcast")

		rec := decodeLine(t, &buf)
		assert.Equal(t, "outer", rec["connection_id"])
		group, ok := rec["fanout"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "sender", group["connection_id"])
	})
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestWithEnvironment(t *testing.T) {
	t.Run("production is json with service attrs", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithEnvironment("prod", "wavesyncd"))
		log.Info("hello")

		rec := decodeLine(t, &buf)
		assert.Equal(t, "wavesyncd", rec["service"])
		assert.Equal(t, logger.Production, rec["env"])
	})

	t.Run("development is text at debug", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithEnvironment("", "wavesyncd"))
		log.Debug("hello")

		assert.Contains(t, buf.String(), "msg=hello")
		assert.Contains(t, buf.String(), "env=development")
	})
}

func TestWithFormat_Invalid(t *testing.T) {
	assert.Panics(t, func() {
		logger.New(logger.WithFormat("xml"))
	})
}

func TestAttrs(t *testing.T) {
	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, "error", logger.Error(errors.New("boom")).Key)
	assert.Equal(t, "", logger.ConnectionIDFromContext(context.Background()))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("debug"))
	assert.Equal(t, slog.LevelError, logger.ParseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("nonsense"))
}

func TestDiscard(t *testing.T) {
	log := logger.Discard()
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
}
