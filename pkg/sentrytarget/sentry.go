package sentrytarget

import (
	"context"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/dmitrymomot/logship/pkg/record"
)

const defaultFlushTimeout = 2 * time.Second

// Keys of the user mapping that map onto dedicated Sentry user fields.
// Other keys are sent as user data.
const (
	UserID        = "id"
	UserEmail     = "email"
	UserUsername  = "username"
	UserName      = "name"
	UserIPAddress = "ip_address"
)

// SentryClient implements Client on top of the Sentry Go SDK.
// It owns a dedicated hub, so it never touches the SDK's global hub.
type SentryClient struct {
	hub          *sentry.Hub
	flushTimeout time.Duration
}

// NewSentryClient creates a Sentry SDK client for dsn.
// An empty dsn yields a client that processes events without sending them,
// which is how the SDK behaves when it is disabled.
func NewSentryClient(dsn string, opts ClientOptions) (*SentryClient, error) {
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: opts.Environment,
		Release:     opts.Release,
		Dist:        opts.Dist,
		ServerName:  opts.ServerName,
		SampleRate:  opts.SampleRate,
		Debug:       opts.Debug,
		BeforeSend:  opts.BeforeSend,
	})
	if err != nil {
		return nil, err
	}

	timeout := opts.FlushTimeout
	if timeout <= 0 {
		timeout = defaultFlushTimeout
	}

	return &SentryClient{
		hub:          sentry.NewHub(client, sentry.NewScope()),
		flushTimeout: timeout,
	}, nil
}

// Capture sends a message event. Trace frames are attached as the current thread's stack trace.
// It returns ErrEventDropped when the SDK discards the event.
func (c *SentryClient) Capture(_ context.Context, event *Event, trace []record.Frame) error {
	se := sentry.NewEvent()
	se.Level = sentry.Level(event.Level)
	se.Message = event.Message
	se.Timestamp = event.Timestamp
	se.Extra = maps.Clone(event.Extra)
	se.Tags = maps.Clone(event.Tags)
	se.User = sentryUser(event.User)
	if st := sentryStacktrace(trace); st != nil {
		se.Threads = []sentry.Thread{{Stacktrace: st, Current: true}}
	}

	if id := c.hub.CaptureEvent(se); id == nil {
		return ErrEventDropped
	}
	return nil
}

// CaptureException sends an exception event for err. The SDK extracts the error chain
// and stack trace; the normalized event supplies level, message, timestamp, extra, user and tags.
func (c *SentryClient) CaptureException(_ context.Context, err error, event *Event) error {
	if err == nil {
		return ErrEventDropped
	}

	var id *sentry.EventID
	c.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.Level(event.Level))
		scope.SetTags(event.Tags)
		scope.SetUser(sentryUser(event.User))
		scope.AddEventProcessor(func(se *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			se.Message = event.Message
			if !event.Timestamp.IsZero() {
				se.Timestamp = event.Timestamp
			}
			if len(event.Extra) > 0 {
				if se.Extra == nil {
					se.Extra = make(map[string]any, len(event.Extra))
				}
				maps.Copy(se.Extra, event.Extra)
			}
			return se
		})
		id = c.hub.CaptureException(err)
	})

	if id == nil {
		return ErrEventDropped
	}
	return nil
}

// Flush waits up to timeout for queued events to be delivered.
// A non-positive timeout uses the configured flush timeout.
func (c *SentryClient) Flush(timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = c.flushTimeout
	}
	return c.hub.Flush(timeout)
}

func sentryUser(user map[string]any) sentry.User {
	var u sentry.User
	for k, v := range user {
		s := record.Describe(v)
		switch k {
		case UserID:
			u.ID = s
		case UserEmail:
			u.Email = s
		case UserUsername:
			u.Username = s
		case UserName:
			u.Name = s
		case UserIPAddress:
			u.IPAddress = s
		default:
			if u.Data == nil {
				u.Data = make(map[string]string)
			}
			u.Data[k] = s
		}
	}
	return u
}

// sentryStacktrace converts frames (most recent first) into Sentry's order (oldest first).
func sentryStacktrace(trace []record.Frame) *sentry.Stacktrace {
	if len(trace) == 0 {
		return nil
	}
	frames := make([]sentry.Frame, 0, len(trace))
	for _, f := range slices.Backward(trace) {
		frames = append(frames, sentry.Frame{
			Function: f.Function,
			Filename: filepath.Base(f.File),
			AbsPath:  f.File,
			Lineno:   f.Line,
			InApp:    true,
		})
	}
	return &sentry.Stacktrace{Frames: frames}
}
