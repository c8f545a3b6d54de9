package sentrytarget

import (
	"context"
	"errors"

	"github.com/dmitrymomot/logship/pkg/record"
)

// Formatter turns records into normalized events and dispatches them to a Client.
type Formatter struct {
	snapshot       func() string
	extraFn        ExtraFunc
	userFn         UserFunc
	includeContext bool
}

// NewFormatter creates a formatter. Only the formatting options apply;
// WithClientFactory is ignored here.
func NewFormatter(opts ...Option) *Formatter {
	return newFormatter(newOptions(opts...))
}

func newFormatter(o *options) *Formatter {
	return &Formatter{
		snapshot:       o.snapshot,
		extraFn:        o.extraFn,
		userFn:         o.userFn,
		includeContext: o.includeContext,
	}
}

// Export formats each record in order and makes exactly one client call per record:
// CaptureException for error contexts, Capture otherwise.
// An event the client drops by its own policy (sampling, BeforeSend) does not stop the batch.
// The first other client failure stops the batch and is returned joined with ErrCapture.
// The context is passed to the client as is; nothing is cancelled, retried or logged here.
func (f *Formatter) Export(ctx context.Context, client Client, records []record.Record) error {
	for _, rec := range records {
		event := f.Format(rec)

		var err error
		if ec, ok := rec.Context.(record.ErrorContext); ok && ec.Err != nil {
			err = client.CaptureException(ctx, ec.Err, event)
		} else {
			err = client.Capture(ctx, event, rec.Trace)
		}
		if err != nil && !errors.Is(err, ErrEventDropped) {
			return errors.Join(ErrCapture, err)
		}
	}
	return nil
}

// Format builds the normalized event for a single record.
func (f *Formatter) Format(rec record.Record) *Event {
	var description string
	extra := make(map[string]any)

	switch c := rec.Context.(type) {
	case record.ErrorContext:
		description = c.Message()
	case record.StructuredContext:
		description = record.Describe(c.Message())
		extra = c.Fields()
	case record.PlainContext:
		description = record.Describe(c.Value)
	}

	if f.includeContext {
		extra[ContextKey] = f.snapshot()
	}
	if f.extraFn != nil {
		extra = f.extraFn(rec.Context, extra)
	}

	user := make(map[string]any)
	if f.userFn != nil {
		user = f.userFn(rec.Context, user)
	}

	return &Event{
		Level:     LevelName(rec.Level),
		Timestamp: rec.Time,
		Message:   description,
		Extra:     extra,
		User:      user,
		Tags:      map[string]string{CategoryTag: rec.Category},
	}
}
