package record

import (
	"errors"
	"fmt"
	"strings"
)

// Level is a log severity code. Codes are bit flags and may be combined into a mask.
type Level int

// Severity codes. Profile begin/end share the LevelProfile bit so a mask containing
// LevelProfile matches both.
const (
	LevelError        Level = 0x01
	LevelWarning      Level = 0x02
	LevelInfo         Level = 0x04
	LevelTrace        Level = 0x08
	LevelProfile      Level = 0x40
	LevelProfileBegin Level = 0x50
	LevelProfileEnd   Level = 0x60
)

var levelNames = map[Level]string{
	LevelError:        "error",
	LevelWarning:      "warning",
	LevelInfo:         "info",
	LevelTrace:        "trace",
	LevelProfile:      "profile",
	LevelProfileBegin: "profile_begin",
	LevelProfileEnd:   "profile_end",
}

// String returns the configuration name of the level.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%#x)", int(l))
}

// Has reports whether the mask l shares any bit with level.
// A zero mask matches nothing; callers treat an empty mask as "all levels".
func (l Level) Has(level Level) bool {
	return l&level != 0
}

// ParseLevels builds a level mask from names such as "error" or "warning".
// Names are case-insensitive; an empty list yields a zero mask.
func ParseLevels(names []string) (Level, error) {
	var mask Level
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		found := false
		for lvl, n := range levelNames {
			if n == name {
				mask |= lvl
				found = true
				break
			}
		}
		if !found {
			return 0, errors.Join(ErrUnknownLevel, fmt.Errorf("level %q", name))
		}
	}
	return mask, nil
}
