package logger

import (
	"os"
	"strings"
)

const maskedValue = "***"

// SensitiveEnvMarkers are substrings that mark an environment variable as sensitive.
// EnvSnapshot replaces values of matching names with "***".
var SensitiveEnvMarkers = []string{"PASSWORD", "SECRET", "TOKEN", "DSN", "AUTH"}

// EnvSnapshot returns a SnapshotFunc rendering the named environment variables as
// "NAME=value" lines, in the given order. Unset variables are skipped.
// The environment is read on every call.
func EnvSnapshot(names ...string) SnapshotFunc {
	names = append([]string(nil), names...)
	return func() string {
		var b strings.Builder
		for _, name := range names {
			val, ok := os.LookupEnv(name)
			if !ok {
				continue
			}
			if isSensitiveEnv(name) {
				val = maskedValue
			}
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(name)
			b.WriteByte('=')
			b.WriteString(val)
		}
		return b.String()
	}
}

func isSensitiveEnv(name string) bool {
	upper := strings.ToUpper(name)
	for _, marker := range SensitiveEnvMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}
