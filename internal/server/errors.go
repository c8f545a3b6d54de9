package server

import "errors"

var (
	// ErrInvalidSchedule is returned when the flush schedule cannot be parsed.
	ErrInvalidSchedule = errors.New("server: invalid flush schedule")
	// ErrShutdown is returned when graceful shutdown did not complete cleanly.
	ErrShutdown = errors.New("server: shutdown")
)
