package transport

import (
	"log/slog"
	"time"
)

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithSendBuffer sets the per-connection send queue length.
func WithSendBuffer(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.sendBuffer = n
		}
	}
}

// WithIdleTimeout closes connections that send nothing, pongs included, for d.
// Zero disables keepalive.
func WithIdleTimeout(d time.Duration) Option {
	return func(h *Handler) {
		h.idleTimeout = max(d, 0)
	}
}

// WithWriteTimeout bounds a single websocket write.
func WithWriteTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.writeTimeout = d
		}
	}
}

// WithReadLimit caps the size of an inbound message in bytes.
func WithReadLimit(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.readLimit = n
		}
	}
}

// WithAllowedOrigins restricts the Origin header of upgrade requests.
// An empty list or "*" allows every origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(h *Handler) {
		h.allowedOrigins = origins
	}
}

// WithIDGenerator replaces the ULID connection id generator.
func WithIDGenerator(fn func() string) Option {
	return func(h *Handler) {
		if fn != nil {
			h.newID = fn
		}
	}
}
