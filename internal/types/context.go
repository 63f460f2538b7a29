package types

import "context"

type contextKey string

const (
	runIDKey  contextKey = "run_id"
	loggerKey contextKey = "logger"
)

// WithRunID stores the batch run ID in the context. Every outbound call
// made while processing the batch carries it for correlation.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// GetRunID retrieves the batch run ID from the context, or "" if unset.
func GetRunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// WithLogger stores a Logger in the context.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext retrieves the Logger from the context. The returned
// logger is expected to have been pre-enriched with run-scoped fields
// before storage. Returns nil if no logger has been set.
func LoggerFromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return nil
}
