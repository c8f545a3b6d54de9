package server

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/logship/internal/metrics"
	"github.com/dmitrymomot/logship/pkg/jsonlog"
)

const (
	defaultAddr            = ":8080"
	defaultShutdownTimeout = 10 * time.Second
	defaultMaxBodyBytes    = 10 << 20 // 10MB
	defaultCheckTimeout    = 5 * time.Second

	defaultReadHeaderTimeout = 5 * time.Second
	defaultReadTimeout       = 30 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
)

// Option configures a Server.
type Option func(*options)

type options struct {
	logger          *slog.Logger
	recorder        *metrics.Recorder
	gatherer        prometheus.Gatherer
	checks          Checks
	addr            string
	flushSchedule   string
	decoderOpts     []jsonlog.Option
	shutdownHooks   []func(context.Context) error
	shutdownTimeout time.Duration
	checkTimeout    time.Duration
	maxBodyBytes    int64
}

func newOptions(opts ...Option) options {
	o := options{
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		addr:            defaultAddr,
		shutdownTimeout: defaultShutdownTimeout,
		checkTimeout:    defaultCheckTimeout,
		maxBodyBytes:    defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithAddr sets the listen address. Default: ":8080".
func WithAddr(addr string) Option {
	return func(o *options) {
		if addr != "" {
			o.addr = addr
		}
	}
}

// WithLogger sets the logger for the server's own messages.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithFlushSchedule sets the cron spec for periodic dispatcher flushes.
// Empty disables them.
func WithFlushSchedule(spec string) Option {
	return func(o *options) {
		o.flushSchedule = spec
	}
}

// WithShutdownTimeout bounds graceful shutdown, including the final flush.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

// WithMaxBodyBytes limits the size of an ingest request body.
func WithMaxBodyBytes(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBodyBytes = n
		}
	}
}

// WithMetrics sets the recorder for ingest and flush counters and the gatherer served
// on /metrics. A nil gatherer serves the default one.
func WithMetrics(rec *metrics.Recorder, g prometheus.Gatherer) Option {
	return func(o *options) {
		o.recorder = rec
		o.gatherer = g
	}
}

// WithReadinessChecks adds named checks to /health/ready.
func WithReadinessChecks(checks Checks) Option {
	return func(o *options) {
		if o.checks == nil {
			o.checks = make(Checks, len(checks))
		}
		for name, check := range checks {
			if check != nil {
				o.checks[name] = check
			}
		}
	}
}

// WithCheckTimeout bounds a readiness probe. Default: 5s.
func WithCheckTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.checkTimeout = d
		}
	}
}

// WithDecoderOptions configures decoding of ingested lines.
func WithDecoderOptions(opts ...jsonlog.Option) Option {
	return func(o *options) {
		o.decoderOpts = append(o.decoderOpts, opts...)
	}
}

// WithShutdownHooks adds functions run after the dispatcher is closed, in order.
func WithShutdownHooks(hooks ...func(context.Context) error) Option {
	return func(o *options) {
		for _, h := range hooks {
			if h != nil {
				o.shutdownHooks = append(o.shutdownHooks, h)
			}
		}
	}
}
