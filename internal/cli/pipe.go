package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/logship/internal/config"
	"github.com/dmitrymomot/logship/pkg/jsonlog"
	"github.com/dmitrymomot/logship/pkg/logger"
)

func newPipeCommand(ro *rootOptions) *cobra.Command {
	var (
		file   string
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "pipe",
		Short: "Ship JSON log lines from stdin or a file",
		Long: "Reads newline-delimited JSON logs (the format of slog's JSON handler) and\n" +
			"forwards them to Sentry. All buffered records are flushed at end of input.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(ro.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			in := cmd.InOrStdin()
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			p, err := newPipeline(cfg, ro.factory)
			if err != nil {
				return err
			}
			log := logger.NewWithWriter(cmd.ErrOrStderr())
			return runPipe(cmd.Context(), in, p, cfg, strict, log)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read log lines from a file instead of stdin")
	cmd.Flags().BoolVar(&strict, "strict", false, "stop at the first malformed line instead of skipping it")
	return cmd
}

func runPipe(ctx context.Context, in io.Reader, p *pipeline, cfg config.Config, strict bool, log *slog.Logger) error {
	dec := jsonlog.NewDecoder(in, jsonlog.WithDefaultCategory(cfg.Input.DefaultCategory))

	var (
		shipped, skipped int
		readErr          error
	)
	for ctx.Err() == nil {
		rec, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if errors.Is(err, jsonlog.ErrMalformedLine) && !strict {
				skipped++
				log.WarnContext(ctx, "skipping malformed line", slog.Int("line", dec.Line()), slog.Any("error", err))
				continue
			}
			readErr = err
			break
		}

		if err := p.dispatcher.Log(ctx, rec); err != nil {
			log.WarnContext(ctx, "flush failed", slog.Any("error", err))
		}
		p.recorder.ObserveIngest(rec)
		shipped++
	}

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Sentry.Client.FlushTimeout+closeGrace)
	defer cancel()
	closeErr := p.close(closeCtx)

	log.InfoContext(ctx, "pipe finished",
		slog.Int("records", shipped),
		slog.Int("skipped", skipped),
	)
	return errors.Join(readErr, closeErr)
}
