package logger

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrymomot/logship/pkg/record"
)

const defaultFlushInterval = 1000

// Target receives batches of records from a Dispatcher.
// final is true for the last flush before shutdown (or an explicit final Flush);
// targets are expected to export everything they hold at that point.
// The records slice is shared between targets and must not be modified.
type Target interface {
	Collect(ctx context.Context, records []record.Record, final bool) error
}

// SnapshotFunc returns a description of the ambient process state attached to exported records.
type SnapshotFunc func() string

// Dispatcher buffers log records and flushes them to its targets.
// A flush happens when the buffer reaches the flush interval, on Flush, and on Close.
// Batches are delivered in logging order; concurrent flushes are serialized.
type Dispatcher struct {
	mu      sync.Mutex
	flushMu sync.Mutex

	buf    []record.Record
	closed bool

	targets       []Target
	flushInterval int
	snapshot      SnapshotFunc
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithTargets registers targets. Nil targets are ignored.
func WithTargets(targets ...Target) DispatcherOption {
	return func(d *Dispatcher) {
		for _, t := range targets {
			if t != nil {
				d.targets = append(d.targets, t)
			}
		}
	}
}

// WithFlushInterval sets how many buffered records trigger a flush.
// Zero disables count-based flushing; records are then only delivered by Flush or Close.
// Default: 1000.
func WithFlushInterval(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n >= 0 {
			d.flushInterval = n
		}
	}
}

// WithContextSnapshot sets the provider returned by ContextSnapshot.
func WithContextSnapshot(fn SnapshotFunc) DispatcherOption {
	return func(d *Dispatcher) {
		if fn != nil {
			d.snapshot = fn
		}
	}
}

// NewDispatcher creates a dispatcher with the given options.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		flushInterval: defaultFlushInterval,
		snapshot:      func() string { return "" },
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddTarget registers a target after construction. Nil is ignored.
func (d *Dispatcher) AddTarget(t Target) {
	if t == nil {
		return
	}
	d.flushMu.Lock()
	defer d.flushMu.Unlock()
	d.targets = append(d.targets, t)
}

// Log appends a record to the buffer and flushes when the flush interval is reached.
// The returned error comes from the triggered flush, if any.
func (d *Dispatcher) Log(ctx context.Context, rec record.Record) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.buf = append(d.buf, rec)
	full := d.flushInterval > 0 && len(d.buf) >= d.flushInterval
	d.mu.Unlock()

	if full {
		return d.Flush(ctx, false)
	}
	return nil
}

// Flush hands the buffered records to every target and clears the buffer.
// A non-final flush with an empty buffer is a no-op. A final flush always reaches the
// targets so they can export what they have accumulated.
// Every target receives the batch even when an earlier target fails; errors are joined.
// The batch is shared by every caller that logged into it, so cancellation of ctx is not
// passed on to the targets; its values are.
func (d *Dispatcher) Flush(ctx context.Context, final bool) error {
	d.flushMu.Lock()
	defer d.flushMu.Unlock()

	d.mu.Lock()
	batch := d.buf
	d.buf = nil
	d.mu.Unlock()

	if len(batch) == 0 && !final {
		return nil
	}

	ctx = context.WithoutCancel(ctx)
	var errs []error
	for _, t := range d.targets {
		if err := t.Collect(ctx, batch, final); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrFlush}, errs...)...)
	}
	return nil
}

// Close performs a final flush. Records logged afterwards are rejected with ErrClosed.
// Closing twice is a no-op.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	return d.Flush(ctx, true)
}

// Len returns the number of buffered records.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.buf)
}

// ContextSnapshot returns the ambient context description from the configured provider.
// Without a provider it returns an empty string.
func (d *Dispatcher) ContextSnapshot() string {
	return d.snapshot()
}
