package cli

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/logship/pkg/sentrytarget"
)

// Option configures the root command.
type Option func(*rootOptions)

type rootOptions struct {
	configPath string
	factory    sentrytarget.ClientFactory
}

// WithClientFactory replaces the Sentry client constructor.
func WithClientFactory(f sentrytarget.ClientFactory) Option {
	return func(o *rootOptions) {
		if f != nil {
			o.factory = f
		}
	}
}

// NewRootCommand builds the logship command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	ro := &rootOptions{factory: sentrytarget.DefaultClientFactory}
	for _, opt := range opts {
		opt(ro)
	}

	cmd := &cobra.Command{
		Use:           "logship",
		Short:         "Forward application logs to Sentry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&ro.configPath, "config", "c", "", "configuration file (.yaml, .yml or .json)")

	cmd.AddCommand(
		newPipeCommand(ro),
		newServeCommand(ro),
		newSendCommand(ro),
	)
	return cmd
}
