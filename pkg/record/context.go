package record

import (
	"fmt"
	"maps"
	"reflect"
)

// MessageKey is the key holding the description inside a StructuredContext.
const MessageKey = "msg"

// Context is the primary payload of a record.
// The set of implementations is closed: ErrorContext, StructuredContext and PlainContext.
type Context interface {
	isContext()
}

// ErrorContext wraps an error value. Targets export it as an exception.
type ErrorContext struct {
	Err error
}

// StructuredContext is a mapping carrying a description under MessageKey plus arbitrary fields.
type StructuredContext map[string]any

// PlainContext is an opaque message value.
type PlainContext struct {
	Value any
}

func (ErrorContext) isContext()      {}
func (StructuredContext) isContext() {}
func (PlainContext) isContext()      {}

// Message returns the error text, or an empty string for a nil error.
func (c ErrorContext) Message() string {
	if c.Err == nil {
		return ""
	}
	return c.Err.Error()
}

// Message returns the value stored under MessageKey.
func (c StructuredContext) Message() any {
	return c[MessageKey]
}

// Fields returns a copy of the mapping without MessageKey.
func (c StructuredContext) Fields() map[string]any {
	out := make(map[string]any, len(c))
	maps.Copy(out, c)
	delete(out, MessageKey)
	return out
}

// Classify maps any value to exactly one Context variant.
//
//   - a value that already is a Context is returned unchanged
//   - an error becomes ErrorContext
//   - a map with string keys holding a non-nil value under MessageKey becomes StructuredContext
//   - anything else, structs included, becomes PlainContext
func Classify(v any) Context {
	switch val := v.(type) {
	case Context:
		return val
	case error:
		return ErrorContext{Err: val}
	case map[string]any:
		if hasMessage(val) {
			return StructuredContext(val)
		}
		return PlainContext{Value: v}
	}

	if m, ok := stringKeyedMap(v); ok {
		if hasMessage(m) {
			return StructuredContext(m)
		}
	}
	return PlainContext{Value: v}
}

// Describe renders a description value as text: strings as-is, fmt.Stringer through
// String, everything else through fmt.Sprint. nil renders as an empty string.
func Describe(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// stringKeyedMap converts maps such as map[string]string into map[string]any.
func hasMessage(m map[string]any) bool {
	v, ok := m[MessageKey]
	if !ok || v == nil {
		return false
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}

func stringKeyedMap(v any) (map[string]any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}
