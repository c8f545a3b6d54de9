package logger

import (
	"strings"

	"github.com/dmitrymomot/logship/pkg/record"
)

// Filter selects records by level and category.
//
// Category patterns match exactly, or by prefix when they end with "*"
// ("db.*" matches "db.query" and "db.pool").
type Filter struct {
	// Levels is a mask of accepted levels. Zero accepts every level.
	Levels record.Level
	// Categories lists accepted category patterns. Empty accepts every category.
	Categories []string
	// Except lists category patterns rejected even when matched by Categories.
	Except []string
}

// Match reports whether the record passes the filter.
func (f Filter) Match(rec record.Record) bool {
	if f.Levels != 0 && !f.Levels.Has(rec.Level) {
		return false
	}

	matched := len(f.Categories) == 0
	for _, pattern := range f.Categories {
		if matchCategory(pattern, rec.Category) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	for _, pattern := range f.Except {
		if matchCategory(pattern, rec.Category) {
			return false
		}
	}
	return true
}

// Apply returns the records passing the filter, preserving order.
// The input slice is not modified.
func (f Filter) Apply(records []record.Record) []record.Record {
	out := make([]record.Record, 0, len(records))
	for _, rec := range records {
		if f.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func matchCategory(pattern, category string) bool {
	if pattern == category {
		return true
	}
	prefix, wildcard := strings.CutSuffix(pattern, "*")
	return wildcard && pattern != "" && strings.HasPrefix(category, prefix)
}
