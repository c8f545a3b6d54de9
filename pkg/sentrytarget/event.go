package sentrytarget

import (
	"time"

	"github.com/dmitrymomot/logship/pkg/record"
)

// Normalized severities understood by the error-tracking service.
const (
	LevelError   = "error"
	LevelWarning = "warning"
	LevelInfo    = "info"
	LevelDebug   = "debug"
)

// Keys set by the formatter.
const (
	// ContextKey is the extra entry holding the host context snapshot.
	ContextKey = "context"
	// CategoryTag is the tag holding the record category.
	CategoryTag = "category"
)

var levelNames = map[record.Level]string{
	record.LevelError:        LevelError,
	record.LevelWarning:      LevelWarning,
	record.LevelInfo:         LevelInfo,
	record.LevelTrace:        LevelDebug,
	record.LevelProfileBegin: LevelDebug,
	record.LevelProfileEnd:   LevelDebug,
}

// LevelName normalizes a record level. Codes outside the table map to "error".
func LevelName(l record.Level) string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return LevelError
}

// Event is the normalized payload handed to the remote client.
// It is built fresh for every record and not retained after dispatch.
type Event struct {
	Level     string            `json:"level"`
	Timestamp time.Time         `json:"timestamp"`
	Message   string            `json:"message"`
	Extra     map[string]any    `json:"extra"`
	User      map[string]any    `json:"user"`
	Tags      map[string]string `json:"tags"`
}
