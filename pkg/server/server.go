// Package server exposes the gridshape pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz        liveness probe
//	GET  /version        build information
//	POST /v1/transform   JSON in, table or rendered artifact out
//
// A transform request carries the document and the pipeline options:
//
//	{"data": [...], "select": "$.items", "max_depth": 3,
//	 "locale": "de", "empty_arrays": "drop", "labels": {"a.b": "B"},
//	 "format": "html"}
//
// With format "json" (the default) the response is the table JSON; any
// other format returns the rendered bytes with their content type. Errors
// are JSON objects {"code", "message", "request_id"}.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/codeWuws/th-governance-web-sub002/pkg/pipeline"
)

// DefaultMaxBodyBytes caps request bodies at 32 MiB.
const DefaultMaxBodyBytes = 32 << 20

// DefaultTimeout bounds the handling of a single request.
const DefaultTimeout = 60 * time.Second

// Options configures a Server.
type Options struct {
	// Runner executes transforms. Nil uses an uncached runner.
	Runner *pipeline.Runner

	// Logger receives request logs. Nil uses log.Default().
	Logger *log.Logger

	// MaxBodyBytes caps the request body. Zero uses DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// Timeout bounds each request. Zero uses DefaultTimeout.
	Timeout time.Duration
}

// Server is an http.Handler serving the transform API.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	maxBody int64
	router  chi.Router
}

// New builds a Server and its routes.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	s := &Server{
		runner:  opts.Runner,
		logger:  opts.Logger,
		maxBody: opts.MaxBodyBytes,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.Timeout))

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/transform", s.handleTransform)
	})
	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleMethodNotAllowed)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully, giving in-flight requests up to ten seconds to finish.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
