package httpserver

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/wavesync/pkg/config"
)

// Hook runs when the server starts listening or after it stopped.
type Hook func(ctx context.Context) error

// Option configures the HTTP server.
type Option func(*options)

type options struct {
	addr              string
	readHeaderTimeout time.Duration
	idleTimeout       time.Duration
	shutdownTimeout   time.Duration
	logger            *slog.Logger
	startHooks        []Hook
	stopHooks         []Hook
}

// WithAddr sets the address the server listens on.
func WithAddr(addr string) Option {
	if addr == "" {
		panic("WithAddr: addr cannot be empty")
	}
	return func(o *options) { o.addr = addr }
}

// WithReadHeaderTimeout bounds reading request headers. Bodies and hijacked
// websocket connections are not affected.
func WithReadHeaderTimeout(d time.Duration) Option {
	return func(o *options) { o.readHeaderTimeout = d }
}

// WithIdleTimeout sets how long keep-alive connections wait for the next request.
func WithIdleTimeout(d time.Duration) Option {
	return func(o *options) { o.idleTimeout = d }
}

// WithShutdownTimeout sets the time allowed for graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("WithShutdownTimeout: duration must be > 0")
	}
	return func(o *options) { o.shutdownTimeout = d }
}

// WithLogger supplies the logger. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithStartHook registers a callback that runs once the listener is bound.
// A failing start hook aborts Run.
func WithStartHook(h Hook) Option {
	if h == nil {
		panic("WithStartHook: nil hook")
	}
	return func(o *options) { o.startHooks = append(o.startHooks, h) }
}

// WithStopHook registers a callback that runs after the server shut down.
func WithStopHook(h Hook) Option {
	if h == nil {
		panic("WithStopHook: nil hook")
	}
	return func(o *options) { o.stopHooks = append(o.stopHooks, h) }
}

// FromConfig converts the HTTP configuration section into options.
// Zero values keep the defaults.
func FromConfig(cfg config.HTTP) []Option {
	opts := make([]Option, 0, 4)
	if cfg.Addr != "" {
		opts = append(opts, WithAddr(cfg.Addr))
	}
	if cfg.ReadHeaderTimeout > 0 {
		opts = append(opts, WithReadHeaderTimeout(cfg.ReadHeaderTimeout))
	}
	if cfg.IdleTimeout > 0 {
		opts = append(opts, WithIdleTimeout(cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout > 0 {
		opts = append(opts, WithShutdownTimeout(cfg.ShutdownTimeout))
	}
	return opts
}
