package logger

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dmitrymomot/logship/pkg/record"
)

const (
	// CategoryKey is the attribute that sets a record's category.
	CategoryKey = "category"

	// DefaultCategory is used when a log call carries no category attribute.
	DefaultCategory = "application"
)

// HandlerOption configures the dispatcher-backed slog handler.
type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	level      slog.Leveler
	category   string
	traceLevel int
}

// WithLevel sets the minimum slog level handed to the dispatcher.
// Default: slog.LevelDebug.
func WithLevel(l slog.Leveler) HandlerOption {
	return func(o *handlerOptions) {
		if l != nil {
			o.level = l
		}
	}
}

// WithCategory sets the category for records without a category attribute.
// Default: "application".
func WithCategory(category string) HandlerOption {
	return func(o *handlerOptions) {
		if category != "" {
			o.category = category
		}
	}
}

// WithTraceLevel sets how many application call frames are attached to each record.
// Default: 0 (no trace).
func WithTraceLevel(n int) HandlerOption {
	return func(o *handlerOptions) {
		if n >= 0 {
			o.traceLevel = n
		}
	}
}

// Handler is a slog.Handler that converts slog records into record.Record values
// and logs them to a Dispatcher.
//
// The record context is chosen from the call:
//   - an attribute holding an error yields record.ErrorContext; a non-empty message
//     is prefixed to the error text and the original error stays in the chain
//   - any other attributes yield record.StructuredContext with the message under "msg"
//   - a bare message yields record.PlainContext
type Handler struct {
	dispatcher *Dispatcher
	opts       handlerOptions
	attrs      []slog.Attr
	prefix     string
}

// NewHandler creates a handler logging into d.
func NewHandler(d *Dispatcher, opts ...HandlerOption) *Handler {
	o := handlerOptions{
		level:    slog.LevelDebug,
		category: DefaultCategory,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Handler{dispatcher: d, opts: o}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.level.Level()
}

// Handle converts the slog record and logs it to the dispatcher.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	c := collector{category: h.opts.category, fields: make(map[string]any)}
	for _, a := range h.attrs {
		c.add("", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		c.add(h.prefix, a)
		return true
	})

	rec := record.Record{
		Context:  c.context(r.Message),
		Level:    LevelFromSlog(r.Level),
		Category: c.category,
		Time:     r.Time,
	}
	if h.opts.traceLevel > 0 {
		rec.Trace = callerFrames(h.opts.traceLevel)
	}

	return h.dispatcher.Log(ctx, rec)
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.attrs = slices.Clone(h.attrs)
	for _, a := range attrs {
		h2.attrs = append(h2.attrs, prefixAttr(h.prefix, a))
	}
	return &h2
}

// WithGroup returns a handler that qualifies later attribute keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

func prefixAttr(prefix string, a slog.Attr) slog.Attr {
	if prefix == "" {
		return a
	}
	return slog.Attr{Key: prefix + a.Key, Value: a.Value}
}

// collector flattens slog attributes into record fields.
type collector struct {
	category string
	err      error
	fields   map[string]any
}

func (c *collector) add(prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if a.Key != "" {
			groupPrefix = prefix + a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			c.add(groupPrefix, ga)
		}
		return
	}

	key := prefix + a.Key
	if key == CategoryKey {
		c.category = a.Value.String()
		return
	}
	if err, ok := a.Value.Any().(error); ok && c.err == nil {
		c.err = err
		return
	}
	c.fields[key] = a.Value.Any()
}

func (c *collector) context(msg string) record.Context {
	switch {
	case c.err != nil:
		if msg == "" {
			return record.ErrorContext{Err: c.err}
		}
		return record.ErrorContext{Err: fmt.Errorf("%s: %w", msg, c.err)}
	case len(c.fields) > 0:
		sc := make(record.StructuredContext, len(c.fields)+1)
		for k, v := range c.fields {
			sc[k] = v
		}
		sc[record.MessageKey] = msg
		return sc
	default:
		return record.PlainContext{Value: msg}
	}
}

// LevelFromSlog maps a slog level onto the record level set.
func LevelFromSlog(l slog.Level) record.Level {
	switch {
	case l >= slog.LevelError:
		return record.LevelError
	case l >= slog.LevelWarn:
		return record.LevelWarning
	case l >= slog.LevelInfo:
		return record.LevelInfo
	default:
		return record.LevelTrace
	}
}
