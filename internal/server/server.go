// Package server exposes the event store over a small REST API and serves
// the form-based logging page.
package server

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Tiliavir/remylog/internal/recency"
	"github.com/Tiliavir/remylog/internal/storage"
)

// maxRequestBodySize limits POST body sizes.
const maxRequestBodySize = 1 << 20 // 1 MB

// Options configures a Server.
type Options struct {
	Store    storage.Store
	Location *time.Location
	Reporter recency.Reporter
	Logger   *slog.Logger
	// Registry receives the server's collectors. A fresh registry is used when nil.
	Registry *prometheus.Registry
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Server holds the HTTP handlers.
type Server struct {
	store    storage.Store
	loc      *time.Location
	reporter recency.Reporter
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics
	now      func() time.Time
	page     *template.Template
}

// New creates a Server. Store is required.
func New(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, errors.New("server: store is required")
	}
	s := &Server{
		store:    opts.Store,
		loc:      opts.Location,
		reporter: opts.Reporter,
		logger:   opts.Logger,
		registry: opts.Registry,
		now:      opts.Now,
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.reporter.Tracked == nil {
		s.reporter = recency.DefaultReporter()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	if s.now == nil {
		s.now = time.Now
	}

	m, err := newMetrics(s.registry)
	if err != nil {
		return nil, err
	}
	s.metrics = m

	page, err := parsePage()
	if err != nil {
		return nil, err
	}
	s.page = page
	return s, nil
}

// Handler returns the root handler with all routes and middleware:
//
//	GET    /api/logs
//	POST   /api/logs
//	DELETE /api/logs/{id}
//	GET    /api/days
//	GET    /api/recency
//	GET    /metrics
//	GET    /
//	POST   /log
//	POST   /delete/{id}
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/logs", s.handleListLogs)
	mux.HandleFunc("POST /api/logs", s.handleCreateLog)
	mux.HandleFunc("DELETE /api/logs/{id}", s.handleDeleteLog)
	mux.HandleFunc("GET /api/days", s.handleDays)
	mux.HandleFunc("GET /api/recency", s.handleRecency)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /log", s.handleFormLog)
	mux.HandleFunc("POST /delete/{id}", s.handleFormDelete)

	return s.withRequestID(s.withLogging(withCORS(mux)))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
