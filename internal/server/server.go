// Package server exposes the cleaned dataset to dashboard frontends over
// HTTP: the standardized table itself, per-metric correlation with case
// counts, and a case-count histogram. Rendering is the frontend's job;
// this API only serves the numbers behind the charts.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/covid-analytics-etl/internal/dataset"
)

// Server serves the analytics API plus health and metrics endpoints.
type Server struct {
	httpServer  *http.Server
	reader      dataset.Reader
	cleanedPath string
	logger      *slog.Logger
}

// New creates the server. reader should be a dataset.CachedReader so the
// cleaned CSV is parsed once per change, not once per request.
func New(addr, cleanedPath string, reader dataset.Reader, logger *slog.Logger) *Server {
	s := &Server{
		reader:      reader,
		cleanedPath: cleanedPath,
		logger:      logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/dataset", s.handleDataset)
		r.Get("/metrics", s.handleMetricNames)
		r.Get("/correlation", s.handleCorrelation)
		r.Get("/histogram", s.handleHistogram)
		r.Get("/summary", s.handleSummary)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "healthy"})
}

// handleReady reports ready once the cleaned dataset is readable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.reader.Read(s.cleanedPath); err != nil {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	render.JSON(w, r, map[string]string{"status": "ready"})
}

// loadCleaned reads the cleaned table, writing a 503 telling the caller to
// run the cleaning pipeline when it is unavailable.
func (s *Server) loadCleaned(w http.ResponseWriter, r *http.Request) (*dataset.Table, bool) {
	t, err := s.reader.Read(s.cleanedPath)
	if err != nil {
		s.logger.Warn("cleaned dataset unavailable", "path", s.cleanedPath, "error", err)
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]string{
			"error": "cleaned dataset unavailable: run the cleaning pipeline first",
		})
		return nil, false
	}
	return t, true
}

func badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, map[string]string{"error": msg})
}
