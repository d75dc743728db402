// Package server exposes label sheet generation over HTTP.
//
// Routes:
//
//	GET  /healthz     liveness and build version
//	POST /v1/sheets   records → rendered document (PDF, SVG, PNG or JSON)
//	POST /v1/locate   item index + grid → slot on the sheet
//
// Every response carries an X-Request-ID header. Errors are JSON objects
// whose code is the labelsheet error code, so clients can tell a bad grid
// (INVALID_CONFIG) from an unprintable serial (ENCODING_FAILED).
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/labelsheet/pkg/pipeline"
)

// Config configures the HTTP service.
type Config struct {
	Addr         string
	MaxRecords   int   // upper bound on records per request
	MaxBodyBytes int64 // upper bound on the request body
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Defaults are applied to every request before its own settings.
	Defaults pipeline.Options
}

const (
	defaultAddr         = ":8080"
	defaultMaxRecords   = 10000
	defaultMaxBodyBytes = 8 << 20
	shutdownTimeout     = 10 * time.Second
)

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = defaultAddr
	}
	if c.MaxRecords <= 0 {
		c.MaxRecords = defaultMaxRecords
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = defaultMaxBodyBytes
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 2 * time.Minute
	}
}

// Server serves the label sheet API.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server that renders through runner.
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	cfg.setDefaults()
	if logger == nil {
		logger = log.Default()
	}
	return &Server{cfg: cfg, runner: runner, logger: logger}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/sheets", s.handleSheets)
		r.Post("/locate", s.handleLocate)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody(r, "NOT_FOUND", "no route for "+r.Method+" "+r.URL.Path, nil))
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
