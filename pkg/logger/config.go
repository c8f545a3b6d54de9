package logger

// Config holds host logger settings.
type Config struct {
	// FlushInterval is the buffered record count that triggers a flush. Zero disables it.
	FlushInterval int `koanf:"flush_interval"`
	// TraceLevel is the number of call frames attached to records logged through slog.
	TraceLevel int `koanf:"trace_level"`
	// Category is the default category for records without one.
	Category string `koanf:"category"`
	// SnapshotEnv lists environment variables included in the context snapshot.
	SnapshotEnv []string `koanf:"snapshot_env"`
}

// DefaultConfig returns the defaults used when a setting is absent.
func DefaultConfig() Config {
	return Config{
		FlushInterval: defaultFlushInterval,
		Category:      DefaultCategory,
	}
}

// DispatcherOptions converts the config into dispatcher options.
func (c Config) DispatcherOptions() []DispatcherOption {
	opts := []DispatcherOption{WithFlushInterval(c.FlushInterval)}
	if len(c.SnapshotEnv) > 0 {
		opts = append(opts, WithContextSnapshot(EnvSnapshot(c.SnapshotEnv...)))
	}
	return opts
}

// HandlerOptions converts the config into slog handler options.
func (c Config) HandlerOptions() []HandlerOption {
	return []HandlerOption{WithCategory(c.Category), WithTraceLevel(c.TraceLevel)}
}
