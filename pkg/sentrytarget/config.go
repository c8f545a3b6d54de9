package sentrytarget

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/logship/pkg/logger"
	"github.com/dmitrymomot/logship/pkg/record"
)

const defaultExportInterval = 1000

// Config holds Sentry target settings.
type Config struct {
	// DSN is the Sentry project key URL.
	DSN string `koanf:"dsn"`
	// Enabled turns the target off without removing it from the dispatcher.
	Enabled bool `koanf:"enabled"`
	// IncludeContext adds the host context snapshot to every event's extra mapping.
	IncludeContext bool `koanf:"include_context"`

	// Levels, Categories and Except select which records are exported.
	// Empty lists accept everything. Category patterns may end with "*".
	Levels     []string `koanf:"levels"`
	Categories []string `koanf:"categories"`
	Except     []string `koanf:"except"`

	// ExportInterval is the accumulated record count that triggers an export.
	// Zero exports only on final flushes.
	ExportInterval int `koanf:"export_interval"`

	Client ClientOptions `koanf:"client"`
}

// DefaultConfig returns the defaults used when a setting is absent.
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		IncludeContext: true,
		ExportInterval: defaultExportInterval,
		Client: ClientOptions{
			FlushTimeout: defaultFlushTimeout,
		},
	}
}

// Validate checks mandatory fields and ranges.
func (c Config) Validate() error {
	if c.DSN == "" {
		return ErrMissingDSN
	}
	if c.ExportInterval < 0 {
		return errors.Join(ErrInvalidConfig, fmt.Errorf("export_interval must not be negative, got %d", c.ExportInterval))
	}
	if c.Client.SampleRate < 0 || c.Client.SampleRate > 1 {
		return errors.Join(ErrInvalidConfig, fmt.Errorf("client.sample_rate must be within [0, 1], got %v", c.Client.SampleRate))
	}
	if c.Client.FlushTimeout < 0 {
		return errors.Join(ErrInvalidConfig, fmt.Errorf("client.flush_timeout must not be negative, got %s", c.Client.FlushTimeout))
	}
	if _, err := record.ParseLevels(c.Levels); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}
	return nil
}

// Filter builds the record filter described by the config.
func (c Config) Filter() (logger.Filter, error) {
	mask, err := record.ParseLevels(c.Levels)
	if err != nil {
		return logger.Filter{}, err
	}
	return logger.Filter{
		Levels:     mask,
		Categories: c.Categories,
		Except:     c.Except,
	}, nil
}

func (c Config) flushTimeout() time.Duration {
	if c.Client.FlushTimeout > 0 {
		return c.Client.FlushTimeout
	}
	return defaultFlushTimeout
}
