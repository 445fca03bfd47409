package logger

import (
	"io"
	"log/slog"
)

// For returns base scoped to a component. A nil base yields a discarding logger.
func For(base *slog.Logger, component string) *slog.Logger {
	if base == nil {
		return Discard()
	}
	return base.With("component", component)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
