package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrymomot/wavesync/pkg/kvstore/mongostore"
	"github.com/dmitrymomot/wavesync/pkg/kvstore/pgstore"
	"github.com/dmitrymomot/wavesync/pkg/kvstore/redisstore"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config is the complete wavesyncd configuration.
type Config struct {
	App      App
	HTTP     HTTP
	Store    Store
	Sync     Sync
	Redis    redisstore.Config
	Postgres pgstore.Config
	Mongo    mongostore.Config
}

// App describes the process itself.
type App struct {
	Name      string `env:"APP_NAME" envDefault:"wavesyncd"`
	Env       string `env:"APP_ENV" envDefault:"development"` // development, staging or production
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT"` // text or json; derived from Env when empty
}

// HTTP configures the listener that serves websockets and health checks.
type HTTP struct {
	Addr              string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Store selects the durable store backend.
type Store struct {
	Driver       string `env:"STORE_DRIVER" envDefault:"memory"`
	ClearOnStart bool   `env:"STORE_CLEAR_ON_START" envDefault:"false"`
}

// Sync tunes the synchronization server and its websocket transport.
type Sync struct {
	SendBuffer           int           `env:"SYNC_SEND_BUFFER" envDefault:"64"`
	IdleTimeout          time.Duration `env:"SYNC_IDLE_TIMEOUT" envDefault:"0s"` // zero disables keepalive
	WriteTimeout         time.Duration `env:"SYNC_WRITE_TIMEOUT" envDefault:"10s"`
	ReadLimit            int64         `env:"SYNC_READ_LIMIT" envDefault:"1048576"`
	BroadcastConcurrency int           `env:"SYNC_BROADCAST_CONCURRENCY" envDefault:"8"`
	AllowedOrigins       []string      `env:"WS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Validate reports every invalid value at once.
func (c Config) Validate() error {
	var errs []error
	drivers := []string{DriverMemory, DriverRedis, DriverPostgres, DriverMongo}
	if !slices.Contains(drivers, c.Store.Driver) {
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q is not one of %v", c.Store.Driver, drivers))
	}
	if f := c.App.LogFormat; f != "" && f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q must be text or json", f))
	}
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("HTTP_ADDR is empty"))
	}
	if c.Sync.SendBuffer < 1 {
		errs = append(errs, errors.New("SYNC_SEND_BUFFER must be positive"))
	}
	if c.Sync.IdleTimeout < 0 {
		errs = append(errs, errors.New("SYNC_IDLE_TIMEOUT must not be negative"))
	}
	if c.Store.Driver == DriverPostgres && c.Postgres.ConnectionString == "" {
		errs = append(errs, errors.New("PG_CONN_URL is required for the postgres driver"))
	}
	return errors.Join(errs...)
}
