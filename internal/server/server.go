// Package server implements the HTTP layer of voxcheck: upload buffering,
// temp-file lifecycle, CORS, and the analysis endpoints.
//
// The acoustic core lives in pkg/analysis and pkg/detect and is consumed
// here as two pure calls per request. This layer owns everything the core
// deliberately does not: request timeouts, the concurrency cap on
// CPU-bound extraction, and all I/O.
package server

import (
	"context"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/semaphore"

	"github.com/voxcheck/voxcheck/internal/config"
	"github.com/voxcheck/voxcheck/internal/health"
	"github.com/voxcheck/voxcheck/internal/observe"
)

// Server routes and serves the voxcheck HTTP API.
type Server struct {
	cfg     *config.Config
	metrics *observe.Metrics

	// sem caps the number of concurrently running analyses.
	sem *semaphore.Weighted

	mux *http.ServeMux
}

// New creates a Server from cfg, recording telemetry through m.
func New(cfg *config.Config, m *observe.Metrics) *Server {
	s := &Server{
		cfg:     cfg,
		metrics: m,
		sem:     semaphore.NewWeighted(int64(cfg.Analysis.MaxConcurrent)),
		mux:     http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.HandleFunc("POST /analyze", s.handleAnalyze)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	checks := health.New(health.Checker{
		Name:  "tmpdir",
		Check: checkTempDir,
	})
	checks.Register(s.mux)

	return s
}

// Handler returns the fully wrapped handler chain: CORS on the outside,
// then tracing/metrics middleware, then the route mux.
func (s *Server) Handler() http.Handler {
	h := observe.Middleware(s.metrics)(s.mux)
	return corsMiddleware(s.cfg.Server.CORS, h)
}

// handleRoot serves a liveness payload compatible with simple uptime
// probes and the mobile client's connectivity check.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "voxcheck analysis API is running",
	})
}

// checkTempDir verifies that upload buffering can create files. The
// analyze endpoint spools every upload through the temp directory, so a
// read-only or full temp dir makes the service unready.
func checkTempDir(ctx context.Context) error {
	f, err := os.CreateTemp("", "voxcheck-ready-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
