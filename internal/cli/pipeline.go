package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrymomot/logship/internal/config"
	"github.com/dmitrymomot/logship/internal/metrics"
	"github.com/dmitrymomot/logship/pkg/logger"
	"github.com/dmitrymomot/logship/pkg/sentrytarget"
)

// pipeline is the dispatcher with the Sentry target attached, shared by all commands.
type pipeline struct {
	dispatcher *logger.Dispatcher
	target     *sentrytarget.Target
	recorder   *metrics.Recorder
	registry   *prometheus.Registry
}

func newPipeline(cfg config.Config, factory sentrytarget.ClientFactory) (*pipeline, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec, err := metrics.NewRecorder(reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	d := logger.NewDispatcher(cfg.Logger.DispatcherOptions()...)
	target, err := sentrytarget.New(cfg.Sentry,
		sentrytarget.WithClientFactory(rec.WrapFactory(factory)),
		sentrytarget.WithContextSnapshot(d.ContextSnapshot),
	)
	if err != nil {
		return nil, fmt.Errorf("sentry target: %w", err)
	}
	d.AddTarget(target)

	return &pipeline{dispatcher: d, target: target, recorder: rec, registry: reg}, nil
}

// close flushes the dispatcher for the last time and waits for the client to
// deliver what it has queued.
func (p *pipeline) close(ctx context.Context) error {
	flushErr := p.dispatcher.Close(ctx)
	p.recorder.ObserveFlush(true, flushErr)
	return errors.Join(flushErr, p.target.Close(ctx))
}
