package logging

import (
	"context"
	"log/slog"
	"strings"
)

type runIDKey struct{}

// WithRunID attaches a generation run identifier to ctx. Blank IDs are ignored.
func WithRunID(ctx context.Context, runID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext reports the identifier stored by WithRunID.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	runID, _ := ctx.Value(runIDKey{}).(string)
	return runID, runID != ""
}

// WithContext adds the context's run ID, if any, to logger.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	runID, ok := RunIDFromContext(ctx)
	if !ok {
		return logger
	}
	return logger.With(slog.String(FieldRunID, runID))
}
