// Package jsonlog decodes newline-delimited JSON logs into records.
//
// The expected shape is what slog.NewJSONHandler writes:
//
//	{"time":"2026-01-02T15:04:05Z","level":"WARN","msg":"disk full","category":"io","code":7}
//
// Known keys:
//   - time: RFC 3339 timestamp; missing or invalid values use the decode time
//   - level: slog level text ("ERROR", "WARN+2", ...) or a numeric record.Level code
//   - msg: the description
//   - category: the record category
//   - source: slog's {"function","file","line"} object, kept as the record trace
//   - error / err: a string error text; the record becomes an exception
//
// Remaining keys become structured fields next to "msg". A line with no remaining keys
// yields a plain record.
package jsonlog
