package syncserver

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClearOnStart wipes the durable store during Start.
func WithClearOnStart(clear bool) Option {
	return func(s *Server) {
		s.clearOnStart = clear
	}
}

// WithBroadcastConcurrency bounds parallel binding lookups per broadcast.
func WithBroadcastConcurrency(n int) Option {
	return func(s *Server) {
		s.broadcastConcurrency = n
	}
}

// WithRegisterer registers the server's collectors with reg instead of a
// private registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Server) {
		if reg != nil {
			s.registerer = reg
		}
	}
}
