// Package config loads logship settings from an optional YAML or JSON file and
// LOGSHIP_ environment variables. Nested keys in variable names are separated by a
// double underscore: LOGSHIP_SENTRY__DSN sets sentry.dsn.
package config
