package logger

import (
	"io"
	"log/slog"
	"os"
)

// New creates a JSON logger writing to stdout, with optional context extractors.
// This is the logger for operational output; it never feeds a Dispatcher.
func New(extractors ...ContextExtractor) *slog.Logger {
	return NewWithWriter(os.Stdout, extractors...)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(NewLogHandlerDecorator(h, extractors...))
}

// NewNope creates a logger that discards all output.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
