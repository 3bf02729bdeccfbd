package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wavesync/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "wavesyncd", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, config.DriverMemory, cfg.Store.Driver)
	assert.False(t, cfg.Store.ClearOnStart)
	assert.Equal(t, 64, cfg.Sync.SendBuffer)
	assert.Zero(t, cfg.Sync.IdleTimeout)
	assert.Equal(t, []string{"*"}, cfg.Sync.AllowedOrigins)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.ConnectionURL)
	assert.Equal(t, "wavesync", cfg.Mongo.Database)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("STORE_CLEAR_ON_START", "true")
	t.Setenv("SYNC_IDLE_TIMEOUT", "45s")
	t.Setenv("WS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("REDIS_KEY_PREFIX", "ws:")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
	assert.Equal(t, config.DriverRedis, cfg.Store.Driver)
	assert.True(t, cfg.Store.ClearOnStart)
	assert.Equal(t, 45*time.Second, cfg.Sync.IdleTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Sync.AllowedOrigins)
	assert.Equal(t, "ws:", cfg.Redis.KeyPrefix)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "etcd")
		_, err := config.Load()
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("postgres without url", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "postgres")
		t.Setenv("PG_CONN_URL", "")
		_, err := config.Load()
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("unparsable duration", func(t *testing.T) {
		t.Setenv("SYNC_IDLE_TIMEOUT", "soon")
		_, err := config.Load()
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}

func TestLoadInto(t *testing.T) {
	type section struct {
		Value string `env:"WAVESYNC_TEST_VALUE" envDefault:"fallback"`
	}

	var s section
	require.NoError(t, config.LoadInto(&s))
	assert.Equal(t, "fallback", s.Value)

	t.Setenv("WAVESYNC_TEST_VALUE", "set")
	require.NoError(t, config.LoadInto(&s))
	assert.Equal(t, "set", s.Value)

	assert.ErrorIs(t, config.LoadInto[section](nil), config.ErrNilPointer)
}

func TestMustLoad_Panics(t *testing.T) {
	t.Setenv("STORE_DRIVER", "etcd")
	assert.Panics(t, func() { config.MustLoad() })
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	_, err := config.Load()
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
