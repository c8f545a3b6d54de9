package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/logship/internal/config"
	"github.com/dmitrymomot/logship/internal/server"
	"github.com/dmitrymomot/logship/pkg/jsonlog"
	"github.com/dmitrymomot/logship/pkg/logger"
)

func newServeCommand(ro *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Accept JSON log lines over HTTP and forward them to Sentry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(ro.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			p, err := newPipeline(cfg, ro.factory)
			if err != nil {
				return err
			}

			extractors := []logger.ContextExtractor{server.RequestIDExtractor()}
			log := logger.New(extractors...)
			if cfg.Server.ForwardLogs {
				opts := append(cfg.Logger.HandlerOptions(), logger.WithLevel(slog.LevelWarn))
				log = logger.NewWithTarget(p.dispatcher, extractors, opts...)
			}

			if err := p.target.Init(); err != nil {
				log.Warn("sentry client unavailable", slog.Any("error", err))
			}

			srv := server.New(p.dispatcher,
				server.WithAddr(cfg.Server.Addr),
				server.WithLogger(log),
				server.WithFlushSchedule(cfg.Server.FlushSchedule),
				server.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
				server.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
				server.WithMetrics(p.recorder, p.registry),
				server.WithReadinessChecks(server.Checks{"sentry": p.target.Ready}),
				server.WithDecoderOptions(jsonlog.WithDefaultCategory(cfg.Input.DefaultCategory)),
				server.WithShutdownHooks(p.target.Close),
			)
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}
