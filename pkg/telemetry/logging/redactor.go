package logging

import (
	"context"
	"log/slog"

	"sentinel-hq/ceres/pkg/compliance/redact"
	"sentinel-hq/ceres/pkg/detect"
)

// RedactingHandler is a slog.Handler that scrubs sensitive values from
// string attributes before delegating to the wrapped handler. Detection uses
// the same pattern detector the engine uses, so anything the engine would
// flag never reaches the log stream in the clear.
type RedactingHandler struct {
	inner    slog.Handler
	detector detect.Detector
	redactor *redact.Redactor
	strategy redact.Strategy
}

// NewRedactingHandler wraps inner with sensitive value scrubbing.
func NewRedactingHandler(inner slog.Handler) *RedactingHandler {
	return &RedactingHandler{
		inner:    inner,
		detector: detect.NewRegexDetector(),
		redactor: redact.NewRedactor(nil),
		strategy: redact.Token{},
	}
}

// Enabled reports whether the wrapped handler handles records at the level.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle scrubs the record's message and string attributes, then delegates.
func (h *RedactingHandler) Handle(ctx context.Context, record slog.Record) error {
	clean := slog.NewRecord(record.Time, record.Level, h.scrub(record.Message), record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		clean.AddAttrs(h.scrubAttr(attr))
		return true
	})
	return h.inner.Handle(ctx, clean)
}

// WithAttrs returns a handler whose wrapped handler carries the scrubbed
// attributes.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	scrubbed := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		scrubbed[i] = h.scrubAttr(attr)
	}
	return &RedactingHandler{
		inner:    h.inner.WithAttrs(scrubbed),
		detector: h.detector,
		redactor: h.redactor,
		strategy: h.strategy,
	}
}

// WithGroup returns a handler with the group opened on the wrapped handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{
		inner:    h.inner.WithGroup(name),
		detector: h.detector,
		redactor: h.redactor,
		strategy: h.strategy,
	}
}

// scrubAttr scrubs string and group attribute values.
func (h *RedactingHandler) scrubAttr(attr slog.Attr) slog.Attr {
	switch attr.Value.Kind() {
	case slog.KindString:
		return slog.String(attr.Key, h.scrub(attr.Value.String()))
	case slog.KindGroup:
		group := attr.Value.Group()
		scrubbed := make([]slog.Attr, len(group))
		for i, member := range group {
			scrubbed[i] = h.scrubAttr(member)
		}
		return slog.Attr{Key: attr.Key, Value: slog.GroupValue(scrubbed...)}
	default:
		return attr
	}
}

// scrub replaces detected sensitive values with type tokens.
func (h *RedactingHandler) scrub(text string) string {
	entities := h.detector.Detect(text)
	if len(entities) == 0 {
		return text
	}
	scrubbed, _ := h.redactor.Redact(text, entities, h.strategy)
	return scrubbed
}
