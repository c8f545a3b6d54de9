package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/logship/pkg/record"
	"github.com/dmitrymomot/logship/pkg/sentrytarget"
)

const namespace = "logship"

// Capture kinds.
const (
	KindEvent     = "event"
	KindException = "exception"
)

// Capture results.
const (
	ResultSent    = "sent"
	ResultDropped = "dropped"
	ResultFailed  = "failed"
)

// Recorder holds the shipper's Prometheus collectors.
type Recorder struct {
	captures *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	ingested *prometheus.CounterVec
	flushes  *prometheus.CounterVec
}

// NewRecorder registers the collectors on reg. A nil reg means the default registerer.
// Collectors that are already registered are reused.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	captures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "captures_total",
		Help:      "Capture calls made to the error tracker.",
	}, []string{"kind", "level", "result"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "capture_duration_seconds",
		Help:      "Time spent in a single capture call.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})
	ingested := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_ingested_total",
		Help:      "Records accepted from log input.",
	}, []string{"level"})
	flushes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "flushes_total",
		Help:      "Dispatcher flushes by outcome.",
	}, []string{"final", "result"})

	var err error
	if captures, err = register(reg, captures); err != nil {
		return nil, err
	}
	if latency, err = register(reg, latency); err != nil {
		return nil, err
	}
	if ingested, err = register(reg, ingested); err != nil {
		return nil, err
	}
	if flushes, err = register(reg, flushes); err != nil {
		return nil, err
	}

	return &Recorder{
		captures: captures,
		latency:  latency,
		ingested: ingested,
		flushes:  flushes,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ObserveIngest counts a record accepted from input. A nil Recorder records nothing.
func (r *Recorder) ObserveIngest(rec record.Record) {
	if r == nil {
		return
	}
	r.ingested.WithLabelValues(rec.Level.String()).Inc()
}

// ObserveFlush counts a dispatcher flush. A nil Recorder records nothing.
func (r *Recorder) ObserveFlush(final bool, err error) {
	if r == nil {
		return
	}
	result := ResultSent
	if err != nil {
		result = ResultFailed
	}
	f := "false"
	if final {
		f = "true"
	}
	r.flushes.WithLabelValues(f, result).Inc()
}

// WrapFactory returns a factory whose clients are instrumented.
func (r *Recorder) WrapFactory(next sentrytarget.ClientFactory) sentrytarget.ClientFactory {
	return func(dsn string, opts sentrytarget.ClientOptions) (sentrytarget.Client, error) {
		c, err := next(dsn, opts)
		if err != nil || c == nil {
			return c, err
		}
		return r.WrapClient(c), nil
	}
}

// WrapClient instruments c. The wrapper keeps Flush working when c implements
// sentrytarget.Flusher.
func (r *Recorder) WrapClient(c sentrytarget.Client) sentrytarget.Client {
	return &instrumentedClient{next: c, rec: r}
}

func (r *Recorder) observeCapture(kind, level string, start time.Time, err error) {
	r.latency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	r.captures.WithLabelValues(kind, level, resultOf(err)).Inc()
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return ResultSent
	case errors.Is(err, sentrytarget.ErrEventDropped):
		return ResultDropped
	default:
		return ResultFailed
	}
}

type instrumentedClient struct {
	next sentrytarget.Client
	rec  *Recorder
}

func (c *instrumentedClient) Capture(ctx context.Context, ev *sentrytarget.Event, trace []record.Frame) error {
	start := time.Now()
	err := c.next.Capture(ctx, ev, trace)
	c.rec.observeCapture(KindEvent, ev.Level, start, err)
	return err
}

func (c *instrumentedClient) CaptureException(ctx context.Context, exception error, ev *sentrytarget.Event) error {
	start := time.Now()
	err := c.next.CaptureException(ctx, exception, ev)
	c.rec.observeCapture(KindException, ev.Level, start, err)
	return err
}

// Flush drains the wrapped client. Clients without a buffer have nothing to drain.
func (c *instrumentedClient) Flush(timeout time.Duration) bool {
	if f, ok := c.next.(sentrytarget.Flusher); ok {
		return f.Flush(timeout)
	}
	return true
}
