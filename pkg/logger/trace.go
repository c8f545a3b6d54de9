package logger

import (
	"runtime"
	"strings"

	"github.com/dmitrymomot/logship/pkg/record"
)

// Frames from these packages belong to the logging machinery, not the application.
var skippedFramePrefixes = []string{
	"runtime.",
	"log/slog.",
	"github.com/dmitrymomot/logship/pkg/logger.",
}

const maxTraceScan = 64

// callerFrames returns up to depth application frames of the current call stack,
// most recent call first.
func callerFrames(depth int) []record.Frame {
	pcs := make([]uintptr, maxTraceScan)
	n := runtime.Callers(1, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	out := make([]record.Frame, 0, depth)
	for len(out) < depth {
		f, more := frames.Next()
		if !isSkippedFrame(f.Function) {
			out = append(out, record.Frame{
				Function: f.Function,
				File:     f.File,
				Line:     f.Line,
			})
		}
		if !more {
			break
		}
	}
	return out
}

func isSkippedFrame(function string) bool {
	for _, prefix := range skippedFramePrefixes {
		if strings.HasPrefix(function, prefix) {
			return true
		}
	}
	return false
}
