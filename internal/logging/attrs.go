package logging

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"interviewlens/internal/services"
)

type Attr = slog.Attr

type Value = slog.Value

func Any(key string, value any) Attr { return slog.Any(key, value) }

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Float64(key string, value float64) Attr { return slog.Float64(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// ErrorAttrs returns the error together with its classification and the
// operator hint derived from its marker.
func ErrorAttrs(err error) []Attr {
	return []Attr{
		Error(err),
		String(FieldErrorKind, services.Category(err)),
		String(FieldErrorHint, services.Hint(err)),
	}
}

func attrsToArgs(attrs []Attr) []any {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return args
}

func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

// NewComponentLogger creates a logger with a standardized component attribute.
// If logger is nil, a no-op logger is used as the base.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// defaultAttrs appends each key/value pair from defaults whose key is not
// already present in attrs.
func defaultAttrs(attrs []Attr, defaults ...string) []Attr {
	for i := 0; i+1 < len(defaults); i += 2 {
		key := defaults[i]
		if slices.ContainsFunc(attrs, func(a Attr) bool { return a.Key == key }) {
			continue
		}
		attrs = append(attrs, String(key, defaults[i+1]))
	}
	return attrs
}

// WarnWithContext logs a degradation warning. Missing event_type, error_hint
// and impact fields are filled with defaults so every warning can be triaged
// from the run log alone.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	attrs = defaultAttrs(attrs,
		FieldEventType, eventType,
		FieldErrorHint, "check logs for details",
		FieldImpact, "run continues with degraded evidence",
	)
	logger.Warn(msg, attrsToArgs(attrs)...)
}

// ErrorWithContext is WarnWithContext for failures that end a phase or run.
func ErrorWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	attrs = defaultAttrs(attrs,
		FieldEventType, eventType,
		FieldErrorHint, "check logs for details",
	)
	logger.Error(msg, attrsToArgs(attrs)...)
}

// NoopHandler discards all log output.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }

func (NoopHandler) WithAttrs([]slog.Attr) slog.Handler { return NoopHandler{} }

func (NoopHandler) WithGroup(string) slog.Handler { return NoopHandler{} }
