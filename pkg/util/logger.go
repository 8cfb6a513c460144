package util

import (
	"log/slog"
	"os"
)

// NewLogger returns the process-wide logger: human-readable text in
// development, JSON elsewhere. Every line carries the service name so
// aggregated logs stay attributable.
func NewLogger(env string) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if env == "development" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler).With("service", "shopstack")
}
