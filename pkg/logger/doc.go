// Package logger is the host logging subsystem: it buffers log records and flushes them
// to export targets, and bridges log/slog into that buffer.
//
// # Overview
//
// The package provides:
//   - Dispatcher, which buffers record.Record values and flushes them to Targets
//   - Filter, level and category selection shared by targets
//   - Handler, a slog.Handler turning slog calls into records
//   - context extractors and a decorator that inject request-scoped attributes
//   - JSON stdout loggers for operational output (New, NewNope)
//
// # Dispatching
//
// A Dispatcher collects records and hands them to its targets in batches:
//
//	d := logger.NewDispatcher(
//		logger.WithTargets(sentryTarget),
//		logger.WithFlushInterval(100),
//		logger.WithContextSnapshot(logger.EnvSnapshot("HOSTNAME", "APP_ENV")),
//	)
//	defer d.Close(ctx) // final flush
//
//	_ = d.Log(ctx, record.New(record.LevelWarning, "io", map[string]any{"msg": "disk full", "code": 7}))
//
// A flush is triggered when the buffer reaches the flush interval, by Flush, and by Close.
// Close marks the flush as final so targets export everything they still accumulate.
//
// # slog Bridge
//
// NewWithTarget builds a *slog.Logger writing JSON to stdout and logging into a dispatcher:
//
//	log := logger.NewWithTarget(d, []logger.ContextExtractor{requestIDExtractor},
//		logger.WithTraceLevel(3),
//	)
//	log.Error("payment failed", slog.Any("error", err))     // exception record
//	log.Warn("slow query", slog.Duration("took", d))         // structured record
//	log.Info("started", slog.String("category", "startup")) // plain record, category "startup"
//
// An error-valued attribute turns the record into an exception; other attributes become
// structured fields next to the message; a bare message stays plain.
//
// # Context Extractors
//
// A ContextExtractor pulls an attribute out of a context.Context on every log call:
//
//	type ContextExtractor func(ctx context.Context) (slog.Attr, bool)
//
// Extracted attributes are added before the record reaches stdout or the dispatcher.
package logger
