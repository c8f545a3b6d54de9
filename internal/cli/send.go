package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/logship/internal/config"
	"github.com/dmitrymomot/logship/pkg/record"
)

// closeGrace is added to the client flush timeout when bounding the final flush.
const closeGrace = time.Second

func newSendCommand(ro *rootOptions) *cobra.Command {
	var (
		level    string
		category string
		asError  bool
	)
	cmd := &cobra.Command{
		Use:   "send message",
		Short: "Send a single event to check the Sentry setup",
		Long: "Sends one record straight to Sentry, bypassing the level and category\n" +
			"filters, and waits for delivery.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(ro.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			lvl, err := record.ParseLevels([]string{level})
			if err != nil {
				return err
			}

			p, err := newPipeline(cfg, ro.factory)
			if err != nil {
				return err
			}

			msg := strings.Join(args, " ")
			var payload any = msg
			if asError {
				payload = errors.New(msg)
			}
			rec := record.New(lvl, category, payload)

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Sentry.Client.FlushTimeout+closeGrace)
			defer cancel()
			sendErr := p.target.Export(ctx, []record.Record{rec})
			if err := errors.Join(sendErr, p.close(ctx)); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "sent %s event to category %q\n", lvl, category)
			return err
		},
	}
	cmd.Flags().StringVarP(&level, "level", "l", "info", "record level: error, warning, info, trace")
	cmd.Flags().StringVar(&category, "category", "logship", "record category")
	cmd.Flags().BoolVar(&asError, "error", false, "send the message as an exception")
	return cmd
}
