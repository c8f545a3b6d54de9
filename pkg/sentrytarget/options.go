package sentrytarget

import "github.com/dmitrymomot/logship/pkg/record"

// ExtraFunc receives the record context and the prepared extra mapping and returns the
// mapping to send. The result replaces the prepared mapping; it is not merged.
type ExtraFunc func(ctx record.Context, extra map[string]any) map[string]any

// UserFunc receives the record context and the user mapping (initially empty) and returns
// the mapping to send. The result replaces the input.
type UserFunc func(ctx record.Context, user map[string]any) map[string]any

// Option configures a Formatter or a Target.
type Option func(*options)

type options struct {
	snapshot       func() string
	extraFn        ExtraFunc
	userFn         UserFunc
	factory        ClientFactory
	includeContext bool
}

func newOptions(opts ...Option) *options {
	o := &options{
		snapshot:       func() string { return "" },
		factory:        DefaultClientFactory,
		includeContext: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithIncludeContext controls whether the host context snapshot is added to every
// event's extra mapping under "context".
// Default: true.
func WithIncludeContext(include bool) Option {
	return func(o *options) {
		o.includeContext = include
	}
}

// WithContextSnapshot sets the provider of the host context snapshot,
// typically (*logger.Dispatcher).ContextSnapshot.
// Default: a provider returning an empty string.
func WithContextSnapshot(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.snapshot = fn
		}
	}
}

// WithExtraCallback sets the hook that rewrites each event's extra mapping.
// A nil hook leaves the mapping as prepared.
func WithExtraCallback(fn ExtraFunc) Option {
	return func(o *options) {
		o.extraFn = fn
	}
}

// WithUserCallback sets the hook that produces each event's user mapping.
// A nil hook leaves the mapping empty.
func WithUserCallback(fn UserFunc) Option {
	return func(o *options) {
		o.userFn = fn
	}
}

// WithClientFactory replaces the constructor used for the remote client.
// Default: DefaultClientFactory.
func WithClientFactory(f ClientFactory) Option {
	return func(o *options) {
		if f != nil {
			o.factory = f
		}
	}
}
