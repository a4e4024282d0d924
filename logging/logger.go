package logging

import (
	"context"

	"github.com/hashicorp/go-hclog"
)

// Logger is the narrow logging capability consumed by this module. Callers
// supply any implementation; the default is backed by hclog.
type Logger interface {
	Warn(ctx context.Context, msg string, fields ...map[string]any)
	Info(ctx context.Context, msg string, fields ...map[string]any)
	Debug(ctx context.Context, msg string, fields ...map[string]any)

	// SetField returns a context carrying a field attached to every
	// subsequent message logged through that context.
	SetField(ctx context.Context, key string, value any) context.Context
}

// HcLogger adapts an hclog.Logger to the Logger capability.
type HcLogger struct {
	l hclog.Logger
}

// New returns a Logger writing to standard error under the given subsystem
// name.
func New(name string) HcLogger {
	return HcLogger{
		l: hclog.New(&hclog.LoggerOptions{
			Name: name,
		}),
	}
}

// NewWithHclog wraps an existing hclog.Logger.
func NewWithHclog(l hclog.Logger) HcLogger {
	return HcLogger{l: l}
}

// NullLogger discards all messages.
func NullLogger() HcLogger {
	return HcLogger{l: hclog.NewNullLogger()}
}

func (h HcLogger) Warn(ctx context.Context, msg string, fields ...map[string]any) {
	h.l.Warn(msg, args(ctx, fields)...)
}

func (h HcLogger) Info(ctx context.Context, msg string, fields ...map[string]any) {
	h.l.Info(msg, args(ctx, fields)...)
}

func (h HcLogger) Debug(ctx context.Context, msg string, fields ...map[string]any) {
	h.l.Debug(msg, args(ctx, fields)...)
}

func (h HcLogger) SetField(ctx context.Context, key string, value any) context.Context {
	return withContextField(ctx, key, value)
}

// args flattens context fields plus per-call fields into hclog's
// alternating key/value form. Per-call fields win on collision.
func args(ctx context.Context, fields []map[string]any) []any {
	merged := contextFields(ctx)
	for _, m := range fields {
		for k, v := range m {
			merged[k] = v
		}
	}

	out := make([]any, 0, len(merged)*2)
	for k, v := range merged {
		out = append(out, k, v)
	}
	return out
}
