package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	// StatusHealthy indicates all checks passed.
	StatusHealthy = "healthy"
	// StatusUnhealthy indicates one or more checks failed.
	StatusUnhealthy = "unhealthy"
)

// CheckFunc reports whether a dependency is ready.
type CheckFunc func(ctx context.Context) error

// Checks maps check names to check functions.
type Checks map[string]CheckFunc

// HealthResponse is the JSON body of the health endpoints.
type HealthResponse struct {
	Checks map[string]CheckResult `json:"checks,omitempty"`
	Status string                 `json:"status"`
}

// CheckResult is the outcome of a single check.
type CheckResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, r, http.StatusOK, &HealthResponse{Status: StatusHealthy})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	resp := s.runChecks(r.Context())

	status := http.StatusOK
	if resp.Status == StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeHealth(w, r, status, resp)
}

// runChecks runs every check concurrently under the check timeout.
func (s *Server) runChecks(ctx context.Context) *HealthResponse {
	if len(s.opts.checks) == 0 {
		return &HealthResponse{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.checkTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		g       errgroup.Group
		results = make(map[string]CheckResult, len(s.opts.checks))
		status  = StatusHealthy
	)
	for name, check := range s.opts.checks {
		g.Go(func() error {
			result := CheckResult{Status: StatusHealthy}
			if err := check(ctx); err != nil {
				result = CheckResult{Status: StatusUnhealthy, Error: err.Error()}
				s.opts.logger.WarnContext(ctx, "readiness check failed",
					slog.String("check", name),
					slog.String("error", err.Error()),
				)
			}

			mu.Lock()
			defer mu.Unlock()
			results[name] = result
			if result.Status == StatusUnhealthy {
				status = StatusUnhealthy
			}
			return nil
		})
	}
	_ = g.Wait()

	return &HealthResponse{Status: status, Checks: results}
}

// writeHealth answers in JSON when asked via ?format=json or the Accept header,
// and in plain text otherwise.
func writeHealth(w http.ResponseWriter, r *http.Request, status int, resp *HealthResponse) {
	if r.URL.Query().Get("format") == "json" || strings.Contains(r.Header.Get("Accept"), "application/json") {
		writeJSON(w, status, resp)
		return
	}

	w.WriteHeader(status)
	if resp.Status == StatusHealthy {
		_, _ = w.Write([]byte("OK"))
	} else {
		_, _ = w.Write([]byte("Service Unavailable"))
	}
}
