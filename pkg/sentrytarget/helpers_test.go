package sentrytarget_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/logship/pkg/record"
	"github.com/dmitrymomot/logship/pkg/sentrytarget"
)

type capture struct {
	exception error
	event     *sentrytarget.Event
	trace     []record.Frame
}

// fakeClient records every call. When failOn > 0 the failOn-th call returns err.
type fakeClient struct {
	mu      sync.Mutex
	calls   []capture
	failOn  int
	err     error
	flushOK bool
	flushes int
	timeout time.Duration
}

func (c *fakeClient) Capture(_ context.Context, event *sentrytarget.Event, trace []record.Frame) error {
	return c.record(capture{event: event, trace: trace})
}

func (c *fakeClient) CaptureException(_ context.Context, err error, event *sentrytarget.Event) error {
	return c.record(capture{exception: err, event: event})
}

func (c *fakeClient) Flush(timeout time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushes++
	c.timeout = timeout
	return c.flushOK
}

func (c *fakeClient) record(call capture) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
	if c.failOn > 0 && len(c.calls) == c.failOn {
		return c.err
	}
	return nil
}

func (c *fakeClient) captured() []capture {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]capture(nil), c.calls...)
}

// countingClient counts calls before passing them to next.
type countingClient struct {
	next  sentrytarget.Client
	calls atomic.Int32
}

func (c *countingClient) Capture(ctx context.Context, event *sentrytarget.Event, trace []record.Frame) error {
	c.calls.Add(1)
	return c.next.Capture(ctx, event, trace)
}

func (c *countingClient) CaptureException(ctx context.Context, err error, event *sentrytarget.Event) error {
	c.calls.Add(1)
	return c.next.CaptureException(ctx, err, event)
}

func factoryFor(c sentrytarget.Client) sentrytarget.ClientFactory {
	return func(string, sentrytarget.ClientOptions) (sentrytarget.Client, error) {
		return c, nil
	}
}

func testConfig() sentrytarget.Config {
	cfg := sentrytarget.DefaultConfig()
	cfg.DSN = "https://public@sentry.example.com/1"
	return cfg
}
