package record

import (
	"strconv"
	"time"
)

// Frame is a single stack-trace entry. Targets pass frames through without interpreting them.
type Frame struct {
	Function string `json:"function,omitempty"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
}

// String renders the frame as "file:line function".
func (f Frame) String() string {
	s := f.File + ":" + strconv.Itoa(f.Line)
	if f.Function != "" {
		s += " " + f.Function
	}
	return s
}

// Record is one unit of application log output queued for export.
type Record struct {
	Context  Context
	Level    Level
	Category string
	Time     time.Time
	// Trace holds the call stack at the logging site, most recent call first.
	Trace []Frame
}

// New creates a record stamped with the current time.
// The payload is classified with Classify.
func New(level Level, category string, payload any) Record {
	return Record{
		Context:  Classify(payload),
		Level:    level,
		Category: category,
		Time:     time.Now(),
	}
}
