package logger

import (
	"context"
	"log/slog"
	"maps"
)

// ContextExtractor extracts a slog attribute from context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// ContextHandler wraps a slog.Handler and adds attributes extracted from the
// record's context at log time, such as the connection id of the websocket
// that triggered the record or the request id of the upgrade request.
//
// An extracted attribute never overrides one the caller already supplied:
// if the record or the handler (via WithAttrs) carries the same key, the
// extracted value is skipped so JSON output holds a single connection_id.
type ContextHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
	bound      map[string]struct{}
}

// NewContextHandler decorates next with extractors. Nil extractors are dropped.
func NewContextHandler(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	clean := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			clean = append(clean, ex)
		}
	}
	return &ContextHandler{next: next, extractors: clean}
}

// Enabled reports whether the wrapped handler handles records at level.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle appends the extracted attributes to rec and passes it on.
func (h *ContextHandler) Handle(ctx context.Context, rec slog.Record) error {
	if len(h.extractors) == 0 {
		return h.next.Handle(ctx, rec)
	}

	present := make(map[string]struct{}, rec.NumAttrs())
	rec.Attrs(func(a slog.Attr) bool {
		present[a.Key] = struct{}{}
		return true
	})

	for _, ex := range h.extractors {
		attr, ok := ex(ctx)
		if !ok {
			continue
		}
		if _, dup := present[attr.Key]; dup {
			continue
		}
		if _, dup := h.bound[attr.Key]; dup {
			continue
		}
		rec.AddAttrs(attr)
		present[attr.Key] = struct{}{}
	}
	return h.next.Handle(ctx, rec)
}

// WithAttrs returns a handler whose records carry attrs.
// Keys in attrs take precedence over extracted ones in the same group.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	bound := make(map[string]struct{}, len(h.bound)+len(attrs))
	maps.Copy(bound, h.bound)
	for _, a := range attrs {
		bound[a.Key] = struct{}{}
	}
	return &ContextHandler{
		next:       h.next.WithAttrs(attrs),
		extractors: h.extractors,
		bound:      bound,
	}
}

// WithGroup returns a handler that nests later attributes, extracted ones
// included, under name. Keys bound outside the group no longer collide.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ContextHandler{
		next:       h.next.WithGroup(name),
		extractors: h.extractors,
	}
}
