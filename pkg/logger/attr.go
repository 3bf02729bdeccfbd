package logger

import (
	"context"
	"log/slog"
)

// Error records err under "error". A nil error yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

func ConnectionID(id string) slog.Attr {
	return slog.String("connection_id", id)
}

func SharedDataKey(key string) slog.Attr {
	return slog.String("shared_data_key", key)
}

func ParticipantID(id string) slog.Attr {
	return slog.String("participant_id", id)
}

type connIDKey struct{}

// WithConnectionID stores a connection id in ctx for ConnectionIDExtractor.
func WithConnectionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, connIDKey{}, id)
}

// ConnectionIDFromContext returns the connection id stored in ctx, if any.
func ConnectionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(connIDKey{}).(string)
	return id
}

// ConnectionIDExtractor adds connection_id to records logged with a context
// prepared by WithConnectionID.
func ConnectionIDExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := ConnectionIDFromContext(ctx); id != "" {
			return ConnectionID(id), true
		}
		return slog.Attr{}, false
	}
}
