package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/logship/pkg/logger"
	"github.com/dmitrymomot/logship/pkg/record"
)

// recordingTarget stores every collected batch.
type recordingTarget struct {
	mu      sync.Mutex
	batches [][]record.Record
	finals  []bool
	err     error
}

func (t *recordingTarget) Collect(_ context.Context, records []record.Record, final bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.batches = append(t.batches, records)
	t.finals = append(t.finals, final)
	return t.err
}

func (t *recordingTarget) all() []record.Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []record.Record
	for _, b := range t.batches {
		out = append(out, b...)
	}
	return out
}

func plain(msg string) record.Record {
	return record.New(record.LevelInfo, "app", msg)
}

// ctxTarget stores the context error seen by each Collect.
type ctxTarget struct {
	errs []error
}

func (t *ctxTarget) Collect(ctx context.Context, _ []record.Record, _ bool) error {
	t.errs = append(t.errs, ctx.Err())
	return nil
}

func TestDispatcher_Log(t *testing.T) {
	t.Parallel()

	t.Run("flushes when interval reached", func(t *testing.T) {
		t.Parallel()

		target := &recordingTarget{}
		d := logger.NewDispatcher(logger.WithTargets(target), logger.WithFlushInterval(2))
		ctx := context.Background()

		require.NoError(t, d.Log(ctx, plain("a")))
		require.Empty(t, target.batches)
		require.Equal(t, 1, d.Len())

		require.NoError(t, d.Log(ctx, plain("b")))
		require.Len(t, target.batches, 1)
		require.Len(t, target.batches[0], 2)
		require.False(t, target.finals[0])
		require.Zero(t, d.Len())
	})

	t.Run("zero interval buffers until flush", func(t *testing.T) {
		t.Parallel()

		target := &recordingTarget{}
		d := logger.NewDispatcher(logger.WithTargets(target), logger.WithFlushInterval(0))
		ctx := context.Background()

		for range 10 {
			require.NoError(t, d.Log(ctx, plain("x")))
		}
		require.Empty(t, target.batches)
		require.NoError(t, d.Flush(ctx, false))
		require.Len(t, target.all(), 10)
	})

	t.Run("rejects records after close", func(t *testing.T) {
		t.Parallel()

		d := logger.NewDispatcher()
		require.NoError(t, d.Close(context.Background()))
		require.ErrorIs(t, d.Log(context.Background(), plain("late")), logger.ErrClosed)
	})

	t.Run("preserves order", func(t *testing.T) {
		t.Parallel()

		target := &recordingTarget{}
		d := logger.NewDispatcher(logger.WithTargets(target), logger.WithFlushInterval(3))
		ctx := context.Background()

		for _, msg := range []string{"1", "2", "3", "4", "5"} {
			require.NoError(t, d.Log(ctx, plain(msg)))
		}
		require.NoError(t, d.Close(ctx))

		var got []string
		for _, rec := range target.all() {
			got = append(got, rec.Context.(record.PlainContext).Value.(string))
		}
		require.Equal(t, []string{"1", "2", "3", "4", "5"}, got)
	})
}

func TestDispatcher_Flush(t *testing.T) {
	t.Parallel()

	t.Run("non-final empty flush is skipped", func(t *testing.T) {
		t.Parallel()

		target := &recordingTarget{}
		d := logger.NewDispatcher(logger.WithTargets(target))

		require.NoError(t, d.Flush(context.Background(), false))
		require.Empty(t, target.batches)
	})

	t.Run("final flush reaches targets even when empty", func(t *testing.T) {
		t.Parallel()

		target := &recordingTarget{}
		d := logger.NewDispatcher(logger.WithTargets(target))

		require.NoError(t, d.Close(context.Background()))
		require.Equal(t, []bool{true}, target.finals)
		require.Empty(t, target.batches[0])
	})

	t.Run("every target receives the batch and errors are joined", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		failing := &recordingTarget{err: boom}
		ok := &recordingTarget{}
		d := logger.NewDispatcher(logger.WithTargets(failing, nil, ok))
		ctx := context.Background()

		require.NoError(t, d.Log(ctx, plain("x")))
		err := d.Flush(ctx, false)

		require.ErrorIs(t, err, logger.ErrFlush)
		require.ErrorIs(t, err, boom)
		require.Len(t, ok.all(), 1)
		require.Zero(t, d.Len())
	})

	t.Run("close twice is a no-op", func(t *testing.T) {
		t.Parallel()

		target := &recordingTarget{}
		d := logger.NewDispatcher(logger.WithTargets(target))
		ctx := context.Background()

		require.NoError(t, d.Close(ctx))
		require.NoError(t, d.Close(ctx))
		require.Len(t, target.finals, 1)
	})

	t.Run("cancelled caller does not cancel the shared batch", func(t *testing.T) {
		t.Parallel()

		target := &ctxTarget{}
		rec := &recordingTarget{}
		d := logger.NewDispatcher(logger.WithFlushInterval(3), logger.WithTargets(target, rec))

		require.NoError(t, d.Log(context.Background(), record.New(record.LevelInfo, "a", "1")))
		require.NoError(t, d.Log(context.Background(), record.New(record.LevelInfo, "a", "2")))

		cancelled, cancel := context.WithCancel(context.Background())
		cancel()
		require.NoError(t, d.Log(cancelled, record.New(record.LevelInfo, "a", "3")))

		require.Equal(t, []error{nil}, target.errs)
		require.Len(t, rec.all(), 3)
	})
}

func TestDispatcher_ContextSnapshot(t *testing.T) {
	t.Run("defaults to empty", func(t *testing.T) {
		require.Empty(t, logger.NewDispatcher().ContextSnapshot())
	})

	t.Run("uses provider", func(t *testing.T) {
		d := logger.NewDispatcher(logger.WithContextSnapshot(func() string { return "host=a" }))
		require.Equal(t, "host=a", d.ContextSnapshot())
	})

	t.Run("env snapshot masks sensitive values", func(t *testing.T) {
		t.Setenv("LOGSHIP_TEST_HOST", "web-1")
		t.Setenv("LOGSHIP_TEST_API_TOKEN", "secret")

		snap := logger.EnvSnapshot("LOGSHIP_TEST_HOST", "LOGSHIP_TEST_MISSING", "LOGSHIP_TEST_API_TOKEN")
		require.Equal(t, "LOGSHIP_TEST_HOST=web-1\nLOGSHIP_TEST_API_TOKEN=***", snap())
	})
}

func TestFilter(t *testing.T) {
	t.Parallel()

	rec := func(level record.Level, category string) record.Record {
		return record.Record{Level: level, Category: category}
	}

	t.Run("zero filter accepts everything", func(t *testing.T) {
		t.Parallel()

		require.True(t, logger.Filter{}.Match(rec(record.LevelTrace, "anything")))
	})

	t.Run("level mask", func(t *testing.T) {
		t.Parallel()

		f := logger.Filter{Levels: record.LevelError | record.LevelWarning}
		require.True(t, f.Match(rec(record.LevelWarning, "x")))
		require.False(t, f.Match(rec(record.LevelInfo, "x")))
	})

	t.Run("category wildcard and except", func(t *testing.T) {
		t.Parallel()

		f := logger.Filter{Categories: []string{"db.*", "http"}, Except: []string{"db.pool*"}}
		require.True(t, f.Match(rec(record.LevelError, "db.query")))
		require.True(t, f.Match(rec(record.LevelError, "http")))
		require.False(t, f.Match(rec(record.LevelError, "http.client")))
		require.False(t, f.Match(rec(record.LevelError, "db.pool.acquire")))
		require.False(t, f.Match(rec(record.LevelError, "cache")))
	})

	t.Run("apply keeps order", func(t *testing.T) {
		t.Parallel()

		f := logger.Filter{Levels: record.LevelError}
		in := []record.Record{rec(record.LevelError, "a"), rec(record.LevelInfo, "b"), rec(record.LevelError, "c")}
		out := f.Apply(in)

		require.Len(t, out, 2)
		require.Equal(t, "a", out[0].Category)
		require.Equal(t, "c", out[1].Category)
		require.Len(t, in, 3)
	})
}

func TestHandler(t *testing.T) {
	t.Parallel()

	newLogger := func(opts ...logger.HandlerOption) (*slog.Logger, *logger.Dispatcher, *recordingTarget) {
		target := &recordingTarget{}
		d := logger.NewDispatcher(logger.WithTargets(target), logger.WithFlushInterval(0))
		return slog.New(logger.NewHandler(d, opts...)), d, target
	}

	flushOne := func(t *testing.T, d *logger.Dispatcher, target *recordingTarget) record.Record {
		t.Helper()
		require.NoError(t, d.Flush(context.Background(), true))
		all := target.all()
		require.Len(t, all, 1)
		return all[0]
	}

	t.Run("bare message is plain", func(t *testing.T) {
		t.Parallel()

		log, d, target := newLogger()
		log.Info("started")

		rec := flushOne(t, d, target)
		require.Equal(t, record.PlainContext{Value: "started"}, rec.Context)
		require.Equal(t, record.LevelInfo, rec.Level)
		require.Equal(t, logger.DefaultCategory, rec.Category)
		require.False(t, rec.Time.IsZero())
	})

	t.Run("attributes make structured context", func(t *testing.T) {
		t.Parallel()

		log, d, target := newLogger()
		log.Warn("disk full", slog.Int("code", 7), slog.String("category", "io"))

		rec := flushOne(t, d, target)
		sc, ok := rec.Context.(record.StructuredContext)
		require.True(t, ok)
		require.Equal(t, "disk full", sc.Message())
		require.Equal(t, map[string]any{"code": int64(7)}, sc.Fields())
		require.Equal(t, "io", rec.Category)
		require.Equal(t, record.LevelWarning, rec.Level)
	})

	t.Run("error attribute makes error context", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("card declined")
		log, d, target := newLogger()
		log.Error("payment failed", slog.Any("error", cause), slog.String("user", "u1"))

		rec := flushOne(t, d, target)
		ec, ok := rec.Context.(record.ErrorContext)
		require.True(t, ok)
		require.Equal(t, "payment failed: card declined", ec.Message())
		require.ErrorIs(t, ec.Err, cause)
		require.Equal(t, record.LevelError, rec.Level)
	})

	t.Run("groups and handler attrs are flattened", func(t *testing.T) {
		t.Parallel()

		log, d, target := newLogger()
		log.With(slog.String("service", "api")).WithGroup("req").Info("done", slog.Int("status", 200))

		rec := flushOne(t, d, target)
		sc, ok := rec.Context.(record.StructuredContext)
		require.True(t, ok)
		require.Equal(t, "api", sc["service"])
		require.Equal(t, int64(200), sc["req.status"])
	})

	t.Run("level below minimum is dropped", func(t *testing.T) {
		t.Parallel()

		log, d, _ := newLogger(logger.WithLevel(slog.LevelWarn))
		log.Info("ignored")
		require.Zero(t, d.Len())
	})

	t.Run("debug maps to trace and default category is configurable", func(t *testing.T) {
		t.Parallel()

		log, d, target := newLogger(logger.WithCategory("worker"))
		log.Debug("tick")

		rec := flushOne(t, d, target)
		require.Equal(t, record.LevelTrace, rec.Level)
		require.Equal(t, "worker", rec.Category)
	})

	t.Run("trace level captures application frames", func(t *testing.T) {
		t.Parallel()

		log, d, target := newLogger(logger.WithTraceLevel(2))
		log.Info("traced")

		rec := flushOne(t, d, target)
		require.NotEmpty(t, rec.Trace)
		require.LessOrEqual(t, len(rec.Trace), 2)
		require.Contains(t, rec.Trace[0].Function, "TestHandler")
		for _, f := range rec.Trace {
			require.False(t, strings.HasPrefix(f.Function, "log/slog."))
		}
	})
}

func TestNewWithTarget(t *testing.T) {
	t.Parallel()

	type reqIDKey struct{}
	extractor := func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(reqIDKey{}).(string); ok {
			return slog.String("request_id", v), true
		}
		return slog.Attr{}, false
	}

	target := &recordingTarget{}
	d := logger.NewDispatcher(logger.WithTargets(target), logger.WithFlushInterval(0))
	log := logger.NewWithTarget(d, []logger.ContextExtractor{extractor, nil})

	ctx := context.WithValue(context.Background(), reqIDKey{}, "req-1")
	log.InfoContext(ctx, "handled")
	require.NoError(t, d.Close(ctx))

	all := target.all()
	require.Len(t, all, 1)
	sc, ok := all[0].Context.(record.StructuredContext)
	require.True(t, ok)
	require.Equal(t, "req-1", sc["request_id"])
}

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf)
	log.Info("hello", slog.String("k", "v"))
	log.Debug("hidden")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "hello", line["msg"])
	require.Equal(t, "v", line["k"])
}

func TestNewNope(t *testing.T) {
	t.Parallel()

	log := logger.NewNope()
	require.NotNil(t, log)
	log.Error("discarded")
}
