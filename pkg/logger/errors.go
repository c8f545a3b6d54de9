package logger

import "errors"

// Sentinel errors for the logger package.
var (
	// ErrClosed is returned when a record is logged to a closed dispatcher.
	ErrClosed = errors.New("logger: dispatcher closed")

	// ErrFlush is returned when one or more targets fail to collect a batch.
	// The target errors are joined with it.
	ErrFlush = errors.New("logger: flush failed")
)
