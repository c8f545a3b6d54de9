package sentrytarget

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/dmitrymomot/logship/pkg/record"
)

// Client delivers normalized events to the error-tracking service.
// Transport, retries and queuing are the client's concern.
type Client interface {
	// Capture sends a generic event together with the record's raw trace frames.
	Capture(ctx context.Context, event *Event, trace []record.Frame) error
	// CaptureException sends an event for the original error so the client can
	// extract the error chain natively.
	CaptureException(ctx context.Context, err error, event *Event) error
}

// Flusher is implemented by clients that buffer events in the background.
type Flusher interface {
	// Flush waits up to timeout for buffered events to be sent and reports success.
	Flush(timeout time.Duration) bool
}

// ClientFactory constructs a Client from a DSN and client options.
type ClientFactory func(dsn string, opts ClientOptions) (Client, error)

// ClientOptions are passed to the client constructor.
type ClientOptions struct {
	Environment string `koanf:"environment"`
	Release     string `koanf:"release"`
	Dist        string `koanf:"dist"`
	ServerName  string `koanf:"server_name"`
	// SampleRate is the share of events sent, in (0, 1]. Zero sends everything.
	SampleRate float64 `koanf:"sample_rate"`
	Debug      bool    `koanf:"debug"`
	// FlushTimeout bounds how long Close waits for buffered events.
	FlushTimeout time.Duration `koanf:"flush_timeout"`

	// BeforeSend is handed to the Sentry SDK unchanged. Not loadable from configuration.
	BeforeSend func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event `koanf:"-"`
}

// DefaultClientFactory builds a SentryClient.
func DefaultClientFactory(dsn string, opts ClientOptions) (Client, error) {
	c, err := NewSentryClient(dsn, opts)
	if err != nil {
		return nil, err
	}
	return c, nil
}
