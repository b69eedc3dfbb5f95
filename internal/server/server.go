// Package server exposes the layout pipeline over HTTP.
//
// # Routes
//
//	GET  /healthz           liveness and version
//	POST /v1/layout         one chart request, returns its result
//	POST /v1/layout/batch   an array of chart requests, laid out concurrently
//	POST /v1/layout/preview one chart request, returns an SVG preview (?guides=true)
//	POST /v1/axis           axis labels only
//	POST /v1/legend         legend categories only
//	POST /v1/radial         pie/donut slices only
//
// Every response carries an X-Request-ID header; a request id sent by the
// client is echoed, otherwise a UUID is generated. Errors are JSON objects
// {"code": ..., "message": ...} with codes from pkg/errors.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/chartlayout/pkg/pipeline"
)

// =============================================================================
// Options
// =============================================================================

const (
	// DefaultMaxBodyBytes bounds request bodies.
	DefaultMaxBodyBytes = 4 << 20

	// DefaultShutdownTimeout is how long in-flight requests may finish.
	DefaultShutdownTimeout = 10 * time.Second
)

// Options configures the server.
type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxBodyBytes int64
}

// =============================================================================
// Server
// =============================================================================

// Server serves layout requests with a shared runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	opts   Options
	router chi.Router
}

// New creates a server. A nil logger discards nothing and uses log.Default.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	s := &Server{runner: runner, logger: logger, opts: opts}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		if s.opts.WriteTimeout > 0 {
			r.Use(middleware.Timeout(s.opts.WriteTimeout))
		}
		r.Post("/layout", s.handleLayout)
		r.Post("/layout/batch", s.handleBatch)
		r.Post("/layout/preview", s.handlePreview)
		r.Post("/axis", s.handleAxis)
		r.Post("/legend", s.handleLegend)
		r.Post("/radial", s.handleRadial)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, notFound(r))
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
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

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}
