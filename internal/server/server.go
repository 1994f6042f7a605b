// Package server exposes the chart pipeline over HTTP.
//
//	POST /render?format=svg&width=800&height=400   body: TOML or CSV chart
//	GET  /healthz
//
// Bodies sent as text/csv are read as CSV; everything else is read as TOML.
// Rendered artifacts carry an X-Cache header (HIT or MISS) and every
// response carries an X-Request-ID.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/bargroup/pkg/pipeline"
)

const (
	// DefaultMaxBodySize bounds request bodies.
	DefaultMaxBodySize = 1 << 20

	// DefaultRenderTimeout bounds a single render request.
	DefaultRenderTimeout = 30 * time.Second

	shutdownTimeout = 10 * time.Second
)

// Server serves chart renders over HTTP.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	maxBody int64
	timeout time.Duration
	router  chi.Router
}

// Option configures a [Server].
type Option func(*Server)

// WithMaxBodySize limits request bodies to n bytes.
func WithMaxBodySize(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithTimeout limits how long one request may take.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New creates a server rendering through runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:  runner,
		logger:  logger,
		maxBody: DefaultMaxBodySize,
		timeout: DefaultRenderTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Post("/render", s.handleRender)
	return r
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
