package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/logship/internal/metrics"
	"github.com/dmitrymomot/logship/pkg/logger"
)

// Server accepts log lines over HTTP and logs them to a dispatcher.
type Server struct {
	dispatcher *logger.Dispatcher
	router     chi.Router
	opts       options
}

// New creates a server logging into d.
func New(d *logger.Dispatcher, opts ...Option) *Server {
	s := &Server{dispatcher: d, opts: newOptions(opts...)}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Post("/ingest", s.handleIngest)
	r.Get("/health/live", s.handleLive)
	r.Get("/health/ready", s.handleReady)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(s.opts.gatherer))

	s.router = r
	return s
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down: it stops accepting
// requests, stops the flush schedule, closes the dispatcher with a final flush and
// runs the shutdown hooks. Every step shares the shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	scheduler, err := s.newScheduler(ctx)
	if err != nil {
		_ = ln.Close()
		return err
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.opts.logger.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if scheduler != nil {
		scheduler.Start()
	}

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown(srv, scheduler)
	})

	return g.Wait()
}

func (s *Server) shutdown(srv *http.Server, scheduler *cron.Cron) error {
	s.opts.logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.shutdownTimeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if scheduler != nil {
		select {
		case <-scheduler.Stop().Done():
		case <-ctx.Done():
		}
	}

	err := s.dispatcher.Close(ctx)
	s.opts.recorder.ObserveFlush(true, err)
	if err != nil {
		errs = append(errs, err)
	}

	for _, hook := range s.opts.shutdownHooks {
		if err := hook(ctx); err != nil {
			errs = append(errs, err)
			s.opts.logger.Error("shutdown hook failed", slog.Any("error", err))
		}
	}

	if len(errs) > 0 {
		s.opts.logger.Error("shutdown completed with errors")
		return errors.Join(ErrShutdown, errors.Join(errs...))
	}
	s.opts.logger.Info("shutdown completed")
	return nil
}

// newScheduler returns nil when no flush schedule is configured.
func (s *Server) newScheduler(ctx context.Context) (*cron.Cron, error) {
	if s.opts.flushSchedule == "" {
		return nil, nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(s.opts.flushSchedule, func() { s.Flush(ctx) }); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSchedule, s.opts.flushSchedule, err)
	}
	return c, nil
}

// Flush pushes buffered records to the targets and makes them export what they
// have accumulated.
func (s *Server) Flush(ctx context.Context) {
	err := s.dispatcher.Flush(ctx, true)
	s.opts.recorder.ObserveFlush(true, err)
	if err != nil {
		s.opts.logger.WarnContext(ctx, "scheduled flush failed", slog.Any("error", err))
	}
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.opts.logger.InfoContext(r.Context(), "http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
