package logging

import (
	"context"
)

type loggerKeyT string

const loggerKey loggerKeyT = "logger-key"

type fieldsKeyT string

const fieldsKey fieldsKeyT = "logger-fields-key"

func RegisterLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// RetrieveLogger returns the Logger registered on the context, or a discard
// logger when none was registered.
func RetrieveLogger(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return NullLogger()
}

func withContextField(ctx context.Context, key string, value any) context.Context {
	fields := contextFields(ctx)
	fields[key] = value
	return context.WithValue(ctx, fieldsKey, fields)
}

// contextFields returns a mutable copy of the fields attached to ctx.
func contextFields(ctx context.Context) map[string]any {
	out := map[string]any{}
	if fields, ok := ctx.Value(fieldsKey).(map[string]any); ok {
		for k, v := range fields {
			out[k] = v
		}
	}
	return out
}
