package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"

	"github.com/dmitrymomot/logship/pkg/logger"
	"github.com/dmitrymomot/logship/pkg/sentrytarget"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "LOGSHIP_"

var (
	// ErrUnsupportedFormat is returned for config files that are neither YAML nor JSON.
	ErrUnsupportedFormat = errors.New("config: unsupported format")
	// ErrInvalid is returned when a loaded config fails validation.
	ErrInvalid = errors.New("config: invalid")
)

// Config is the complete logship configuration.
type Config struct {
	Sentry sentrytarget.Config `koanf:"sentry"`
	Logger logger.Config       `koanf:"logger"`
	Server ServerConfig        `koanf:"server"`
	Input  InputConfig         `koanf:"input"`
}

// ServerConfig configures the ingest HTTP server.
type ServerConfig struct {
	Addr string `koanf:"addr"`
	// FlushSchedule is a cron spec ("@every 5s", "*/1 * * * *") for periodic dispatcher flushes.
	FlushSchedule   string        `koanf:"flush_schedule"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// MaxBodyBytes limits the size of a single ingest request.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
	// ForwardLogs also ships the server's own warnings and errors through the dispatcher.
	ForwardLogs bool `koanf:"forward_logs"`
}

// InputConfig configures decoding of incoming log lines.
type InputConfig struct {
	DefaultCategory string `koanf:"default_category"`
}

// Default returns the configuration used for absent settings.
func Default() Config {
	return Config{
		Sentry: sentrytarget.DefaultConfig(),
		Logger: logger.DefaultConfig(),
		Server: ServerConfig{
			Addr:            ":8080",
			FlushSchedule:   "@every 5s",
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    10 << 20,
		},
		Input: InputConfig{DefaultCategory: logger.DefaultCategory},
	}
}

// Load reads path (skipped when empty) and then environment overrides on top of
// Default. The result is validated.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		var parser koanf.Parser
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return Config{}, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("config: load env: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKey maps LOGSHIP_SENTRY__CLIENT__SAMPLE_RATE to sentry.client.sample_rate.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks the settings that cannot be checked by the components themselves.
// The Sentry section is validated when the target is built, since a missing DSN is
// only an error for commands that export.
func (c Config) Validate() error {
	if c.Logger.FlushInterval < 0 {
		return fmt.Errorf("%w: logger.flush_interval must not be negative", ErrInvalid)
	}
	if c.Logger.TraceLevel < 0 {
		return fmt.Errorf("%w: logger.trace_level must not be negative", ErrInvalid)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: server.shutdown_timeout must not be negative", ErrInvalid)
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("%w: server.max_body_bytes must not be negative", ErrInvalid)
	}
	if c.Server.FlushSchedule != "" {
		if _, err := cron.ParseStandard(c.Server.FlushSchedule); err != nil {
			return fmt.Errorf("%w: server.flush_schedule: %w", ErrInvalid, err)
		}
	}
	return nil
}
