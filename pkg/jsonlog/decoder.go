package jsonlog

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/valyala/fastjson"

	"github.com/dmitrymomot/logship/pkg/logger"
	"github.com/dmitrymomot/logship/pkg/record"
)

const maxLineSize = 1 << 20 // 1MB

// Keys with special meaning in a log line.
const (
	TimeKey     = "time"
	LevelKey    = "level"
	MessageKey  = "msg"
	CategoryKey = "category"
	SourceKey   = "source"
)

// ErrorKeys are the keys whose string value turns a line into an exception record.
var ErrorKeys = []string{"error", "err"}

// RemoteError carries an error text decoded from a log line.
type RemoteError struct {
	Text string
}

func (e *RemoteError) Error() string { return e.Text }

// Option configures a Decoder.
type Option func(*Decoder)

// WithDefaultCategory sets the category for lines without one.
// Default: "application".
func WithDefaultCategory(category string) Option {
	return func(d *Decoder) {
		if category != "" {
			d.category = category
		}
	}
}

// WithClock sets the time source for lines without a valid timestamp.
func WithClock(now func() time.Time) Option {
	return func(d *Decoder) {
		if now != nil {
			d.now = now
		}
	}
}

// Decoder reads records from newline-delimited JSON. It is not safe for concurrent use.
type Decoder struct {
	scanner  *bufio.Scanner
	parser   fastjson.Parser
	category string
	now      func() time.Time
	line     int
}

// NewDecoder creates a decoder reading from r.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	d := &Decoder{
		scanner:  sc,
		category: logger.DefaultCategory,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Next returns the next record. Blank lines are skipped.
// It returns io.EOF when the input is exhausted.
func (d *Decoder) Next() (record.Record, error) {
	for d.scanner.Scan() {
		d.line++
		line := bytes.TrimSpace(d.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		rec, err := d.Decode(line)
		if err != nil {
			return record.Record{}, errors.Join(ErrMalformedLine, fmt.Errorf("line %d: %w", d.line, err))
		}
		return rec, nil
	}
	if err := d.scanner.Err(); err != nil {
		return record.Record{}, err
	}
	return record.Record{}, io.EOF
}

// Line returns the number of the last line read.
func (d *Decoder) Line() int {
	return d.line
}

// Decode converts a single JSON object into a record.
func (d *Decoder) Decode(line []byte) (record.Record, error) {
	v, err := d.parser.ParseBytes(line)
	if err != nil {
		return record.Record{}, err
	}
	obj, err := v.Object()
	if err != nil {
		return record.Record{}, err
	}

	rec := record.Record{
		Level:    record.LevelInfo,
		Category: d.category,
	}
	var (
		msg     string
		errText string
		fields  = make(map[string]any)
	)

	obj.Visit(func(key []byte, val *fastjson.Value) {
		switch k := string(key); {
		case k == TimeKey:
			rec.Time = parseTime(val)
		case k == LevelKey:
			rec.Level = parseLevel(val)
		case k == MessageKey:
			msg = stringValue(val)
		case k == CategoryKey && val.Type() == fastjson.TypeString:
			rec.Category = string(val.GetStringBytes())
		case k == SourceKey && val.Type() == fastjson.TypeObject:
			rec.Trace = parseSource(val)
		case isErrorKey(k) && val.Type() == fastjson.TypeString && errText == "":
			errText = string(val.GetStringBytes())
		default:
			fields[k] = convert(val)
		}
	})

	if rec.Time.IsZero() {
		rec.Time = d.now()
	}

	switch {
	case errText != "":
		var err error = &RemoteError{Text: errText}
		if msg != "" {
			err = fmt.Errorf("%s: %w", msg, err)
		}
		rec.Context = record.ErrorContext{Err: err}
	case len(fields) > 0:
		fields[record.MessageKey] = msg
		rec.Context = record.StructuredContext(fields)
	default:
		rec.Context = record.PlainContext{Value: msg}
	}
	return rec, nil
}

func isErrorKey(k string) bool {
	for _, ek := range ErrorKeys {
		if k == ek {
			return true
		}
	}
	return false
}

func parseTime(v *fastjson.Value) time.Time {
	if v.Type() != fastjson.TypeString {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, string(v.GetStringBytes()))
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseLevel accepts slog level text or a numeric record level code.
// Anything else is treated as an error.
func parseLevel(v *fastjson.Value) record.Level {
	switch v.Type() {
	case fastjson.TypeNumber:
		return record.Level(v.GetInt())
	case fastjson.TypeString:
		var l slog.Level
		if err := l.UnmarshalText(v.GetStringBytes()); err != nil {
			return record.LevelError
		}
		return logger.LevelFromSlog(l)
	default:
		return record.LevelError
	}
}

func parseSource(v *fastjson.Value) []record.Frame {
	f := record.Frame{
		Function: string(v.GetStringBytes("function")),
		File:     string(v.GetStringBytes("file")),
		Line:     v.GetInt("line"),
	}
	if f.File == "" && f.Function == "" {
		return nil
	}
	return []record.Frame{f}
}

func stringValue(v *fastjson.Value) string {
	if v.Type() == fastjson.TypeString {
		return string(v.GetStringBytes())
	}
	return v.String()
}

// convert turns a JSON value into plain Go values: string, int64, float64, bool, nil,
// []any and map[string]any.
func convert(v *fastjson.Value) any {
	switch v.Type() {
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNumber:
		if n, err := v.Int64(); err == nil {
			return n
		}
		return v.GetFloat64()
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	case fastjson.TypeArray:
		arr := v.GetArray()
		out := make([]any, len(arr))
		for i, item := range arr {
			out[i] = convert(item)
		}
		return out
	case fastjson.TypeObject:
		out := make(map[string]any)
		v.GetObject().Visit(func(key []byte, item *fastjson.Value) {
			out[string(key)] = convert(item)
		})
		return out
	default:
		return nil
	}
}
