// Package server exposes the packing pipeline over HTTP.
//
// Routes:
//
//	POST /v1/layout  pack a document, optionally rendering artifacts
//	POST /v1/tiles   tiles visible in a pixel rectangle, packed lazily
//	GET  /healthz    liveness probe
//	GET  /version    build information
//
// Errors are JSON bodies carrying a machine-readable code from pkg/errors.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/quilt/pkg/pipeline"
)

const (
	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = ":8080"

	// DefaultMaxBodyBytes bounds request bodies.
	DefaultMaxBodyBytes = 8 << 20

	shutdownTimeout = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr         string
	MaxBodyBytes int64
	Runner       *pipeline.Runner
	Logger       *log.Logger
}

// Server serves the HTTP API.
type Server struct {
	addr    string
	maxBody int64
	runner  *pipeline.Runner
	logger  *log.Logger
	router  chi.Router
}

// New creates a server. A nil Runner gets an uncached runner.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}

	s := &Server{
		addr:    cfg.Addr,
		maxBody: cfg.MaxBodyBytes,
		runner:  cfg.Runner,
		logger:  cfg.Logger.WithPrefix("http"),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/tiles", s.handleTiles)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errNotFound(r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: errorDetail{
			Code:    "METHOD_NOT_ALLOWED",
			Message: r.Method + " is not allowed on " + r.URL.Path,
		}})
	})
	return r
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.addr }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
