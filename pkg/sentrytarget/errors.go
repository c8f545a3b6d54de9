package sentrytarget

import "errors"

// Sentinel errors for the sentrytarget package.
var (
	// ErrCapture wraps a failure returned by the remote client while exporting a record.
	ErrCapture = errors.New("sentrytarget: capture failed")

	// ErrClientInit is returned when the remote client cannot be constructed.
	// Construction is attempted once; the failure is returned on every later use.
	ErrClientInit = errors.New("sentrytarget: failed to initialize client")

	// ErrEventDropped is returned when the Sentry SDK discards an event
	// (sampling, BeforeSend, or a disabled client).
	ErrEventDropped = errors.New("sentrytarget: event dropped by client")

	// ErrMissingDSN is returned by Config.Validate when no DSN is configured.
	ErrMissingDSN = errors.New("sentrytarget: dsn is required")

	// ErrInvalidConfig is returned by Config.Validate for out-of-range settings.
	ErrInvalidConfig = errors.New("sentrytarget: invalid configuration")

	// ErrFlushTimeout is returned by Close when buffered events were not delivered in time.
	ErrFlushTimeout = errors.New("sentrytarget: flush timed out")
)
