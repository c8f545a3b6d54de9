package logger

import (
	"log/slog"
	"os"
)

// NewWithTarget creates a logger that writes JSON to stdout and also logs every record
// into d, from where it reaches the dispatcher's targets (for example Sentry).
// Context extractors apply to both destinations. A nil dispatcher yields a stdout-only logger.
func NewWithTarget(d *Dispatcher, extractors []ContextExtractor, opts ...HandlerOption) *slog.Logger {
	stdout := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	if d == nil {
		return slog.New(NewLogHandlerDecorator(stdout, extractors...))
	}
	return slog.New(NewLogHandlerDecorator(newFanoutHandler(stdout, NewHandler(d, opts...)), extractors...))
}
