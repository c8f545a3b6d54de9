package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/logship/internal/config"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, "@every 5s", cfg.Server.FlushSchedule)
	require.Equal(t, 1000, cfg.Sentry.ExportInterval)
	require.True(t, cfg.Sentry.Enabled)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "logship.yaml", `
sentry:
  dsn: https://public@sentry.example.com/1
  include_context: false
  levels: [error, warning]
  categories: ["app.*"]
  export_interval: 10
  client:
    environment: production
    sample_rate: 0.5
    flush_timeout: 3s
logger:
  flush_interval: 50
  snapshot_env: [HOSTNAME]
server:
  addr: 127.0.0.1:9000
  shutdown_timeout: 30s
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "https://public@sentry.example.com/1", cfg.Sentry.DSN)
	require.False(t, cfg.Sentry.IncludeContext)
	require.True(t, cfg.Sentry.Enabled, "absent keys keep defaults")
	require.Equal(t, []string{"error", "warning"}, cfg.Sentry.Levels)
	require.Equal(t, []string{"app.*"}, cfg.Sentry.Categories)
	require.Equal(t, 10, cfg.Sentry.ExportInterval)
	require.Equal(t, "production", cfg.Sentry.Client.Environment)
	require.InDelta(t, 0.5, cfg.Sentry.Client.SampleRate, 1e-9)
	require.Equal(t, 3*time.Second, cfg.Sentry.Client.FlushTimeout)
	require.Equal(t, 50, cfg.Logger.FlushInterval)
	require.Equal(t, []string{"HOSTNAME"}, cfg.Logger.SnapshotEnv)
	require.Equal(t, "application", cfg.Logger.Category)
	require.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	require.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	require.Equal(t, "@every 5s", cfg.Server.FlushSchedule)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "logship.json", `{"sentry":{"dsn":"https://k@sentry.example.com/2"},"input":{"default_category":"worker"}}`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://k@sentry.example.com/2", cfg.Sentry.DSN)
	require.Equal(t, "worker", cfg.Input.DefaultCategory)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "logship.yml", "sentry:\n  dsn: https://file@sentry.example.com/1\n")
	t.Setenv("LOGSHIP_SENTRY__DSN", "https://env@sentry.example.com/1")
	t.Setenv("LOGSHIP_SENTRY__ENABLED", "false")
	t.Setenv("LOGSHIP_SENTRY__CLIENT__ENVIRONMENT", "staging")
	t.Setenv("LOGSHIP_SERVER__FLUSH_SCHEDULE", "@every 1m")
	t.Setenv("LOGSHIP_LOGGER__TRACE_LEVEL", "3")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://env@sentry.example.com/1", cfg.Sentry.DSN)
	require.False(t, cfg.Sentry.Enabled)
	require.Equal(t, "staging", cfg.Sentry.Client.Environment)
	require.Equal(t, "@every 1m", cfg.Server.FlushSchedule)
	require.Equal(t, 3, cfg.Logger.TraceLevel)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("unsupported format", func(t *testing.T) {
		_, err := config.Load(writeFile(t, "logship.toml", "a = 1"))
		require.ErrorIs(t, err, config.ErrUnsupportedFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})

	t.Run("invalid schedule", func(t *testing.T) {
		_, err := config.Load(writeFile(t, "c.yaml", "server:\n  flush_schedule: every now and then\n"))
		require.ErrorIs(t, err, config.ErrInvalid)
	})

	t.Run("negative flush interval", func(t *testing.T) {
		_, err := config.Load(writeFile(t, "c.yaml", "logger:\n  flush_interval: -1\n"))
		require.ErrorIs(t, err, config.ErrInvalid)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	cfg.Server.FlushSchedule = ""
	require.NoError(t, cfg.Validate(), "empty schedule disables periodic flushes")

	cfg.Server.ShutdownTimeout = -time.Second
	require.ErrorIs(t, cfg.Validate(), config.ErrInvalid)
}
