// Package record defines the log record shape shared by the host logger and its export targets.
//
// A Record carries a severity Level, a free-text category, a timestamp, an optional call
// trace, and a Context holding the primary payload. The payload is a closed union of three
// variants, decided once where the record is produced:
//
//   - ErrorContext: an error value (exported as an exception)
//   - StructuredContext: a mapping with a required "msg" key plus arbitrary fields
//   - PlainContext: any other value, used as-is
//
// Classify turns an arbitrary value into exactly one variant:
//
//	record.Classify(errors.New("boom"))                            // ErrorContext
//	record.Classify(map[string]any{"msg": "disk full", "code": 7}) // StructuredContext
//	record.Classify("plain text")                                  // PlainContext
//
// Downstream code switches on the concrete type instead of probing values at export time.
//
// # Levels
//
// Level codes are bit flags so that a set of levels can be expressed as a mask:
//
//	mask := record.LevelError | record.LevelWarning
//	mask.Has(record.LevelWarning) // true
//
// ParseLevels builds such a mask from configuration names.
package record
