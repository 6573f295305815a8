package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor pulls one request-scoped attribute out of ctx.
// It reports false when ctx carries nothing for it.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// contextHandler appends extractor attributes to every record that passes
// the level check of the wrapped handler.
type contextHandler struct {
	inner      slog.Handler
	extractors []ContextExtractor
}

func newContextHandler(inner slog.Handler, extractors []ContextExtractor) slog.Handler {
	var active []ContextExtractor
	for _, fn := range extractors {
		if fn != nil {
			active = append(active, fn)
		}
	}
	if len(active) == 0 {
		return inner
	}
	return &contextHandler{inner: inner, extractors: active}
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	if ctx != nil {
		attrs := make([]slog.Attr, 0, len(h.extractors))
		for _, fn := range h.extractors {
			if a, ok := fn(ctx); ok {
				attrs = append(attrs, a)
			}
		}
		rec.AddAttrs(attrs...)
	}
	return h.inner.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return &contextHandler{inner: h.inner.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &contextHandler{inner: h.inner.WithGroup(name), extractors: h.extractors}
}
