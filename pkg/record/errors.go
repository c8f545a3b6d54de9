package record

import "errors"

// ErrUnknownLevel is returned by ParseLevels for a name outside the fixed level set.
var ErrUnknownLevel = errors.New("record: unknown level name")
