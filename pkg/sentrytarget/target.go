package sentrytarget

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/logship/pkg/logger"
	"github.com/dmitrymomot/logship/pkg/record"
)

var _ logger.Target = (*Target)(nil)

// Target is a logger.Target that exports records to Sentry.
//
// The remote client is built once, on the first Collect (or an explicit Init), from the
// configured DSN and client options. A construction failure is kept and returned from every
// later call; it is not retried.
//
// Collected records are filtered and accumulated until the export interval is reached or a
// final flush arrives, then exported in order. Collect calls are serialized.
type Target struct {
	mu      sync.Mutex
	pending []record.Record

	cfg       Config
	filter    logger.Filter
	formatter *Formatter

	client      func() (Client, error)
	initialized atomic.Bool
}

// New creates a target from cfg. The config is validated; the client is not built yet.
func New(cfg Config, opts ...Option) (*Target, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	filter, err := cfg.Filter()
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	o := newOptions(append([]Option{WithIncludeContext(cfg.IncludeContext)}, opts...)...)

	t := &Target{
		cfg:       cfg,
		filter:    filter,
		formatter: newFormatter(o),
	}
	t.client = sync.OnceValues(func() (Client, error) {
		defer t.initialized.Store(true)
		c, err := o.factory(cfg.DSN, cfg.Client)
		if err != nil {
			return nil, errors.Join(ErrClientInit, err)
		}
		if c == nil {
			return nil, ErrClientInit
		}
		return c, nil
	})
	return t, nil
}

// Init builds the remote client now instead of on first use.
func (t *Target) Init() error {
	_, err := t.client()
	return err
}

// Collect accumulates the records passing the target's filter and exports the
// accumulated batch when final is set or the export interval is reached.
// The accumulator is cleared before export, so a failed batch is not sent again.
func (t *Target) Collect(ctx context.Context, records []record.Record, final bool) error {
	if !t.cfg.Enabled {
		return nil
	}

	client, err := t.client()
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.pending = append(t.pending, t.filter.Apply(records)...)
	count := len(t.pending)
	if count == 0 || !(final || (t.cfg.ExportInterval > 0 && count >= t.cfg.ExportInterval)) {
		return nil
	}

	batch := t.pending
	t.pending = nil
	return t.formatter.Export(ctx, client, batch)
}

// Export formats and dispatches records immediately, bypassing the filter and accumulator.
func (t *Target) Export(ctx context.Context, records []record.Record) error {
	client, err := t.client()
	if err != nil {
		return err
	}
	return t.formatter.Export(ctx, client, records)
}

// Pending returns the number of accumulated records awaiting export.
func (t *Target) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Ready reports whether the remote client can be used. It builds the client if needed.
func (t *Target) Ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !t.cfg.Enabled {
		return nil
	}
	return t.Init()
}

// Flush waits up to timeout for the client to deliver queued events.
// It reports true when there is nothing to wait for.
func (t *Target) Flush(timeout time.Duration) bool {
	if !t.initialized.Load() {
		return true
	}
	client, err := t.client()
	if err != nil {
		return true
	}
	if f, ok := client.(Flusher); ok {
		return f.Flush(timeout)
	}
	return true
}

// Close drains the client, bounded by the context deadline or the configured flush timeout,
// whichever is sooner. A deadline already passed gets a non-blocking flush.
func (t *Target) Close(ctx context.Context) error {
	timeout := t.cfg.flushTimeout()
	if deadline, ok := ctx.Deadline(); ok {
		// A non-positive timeout would mean the configured one to the client.
		timeout = max(min(timeout, time.Until(deadline)), time.Nanosecond)
	}
	if !t.Flush(timeout) {
		return ErrFlushTimeout
	}
	return nil
}
