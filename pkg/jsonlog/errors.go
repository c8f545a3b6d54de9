package jsonlog

import "errors"

// ErrMalformedLine is returned for a line that is not a JSON object.
var ErrMalformedLine = errors.New("jsonlog: malformed line")
