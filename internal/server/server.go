// Package server exposes the analytics service as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kkteam/tripflow/internal/analytics"
	"github.com/kkteam/tripflow/internal/config"
)

// Server serves the trip analytics API.
type Server struct {
	cfg       config.Server
	analytics *analytics.Service
	http      *http.Server
}

// New creates a server for the given analytics service.
func New(cfg config.Server, svc *analytics.Service) *Server {
	s := &Server{
		cfg:       cfg,
		analytics: svc,
	}
	s.http = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router builds the API routes. Exposed so tests can drive the handlers
// without a listening socket.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/trips", s.handleTrips)
		r.Get("/statistics", s.handleStatistics)
		r.Get("/insights", s.handleInsights)
		r.Get("/hourly-patterns", s.handleHourlyPatterns)
		r.Get("/top-routes", s.handleTopRoutes)
		r.Get("/outliers", s.handleOutliers)
	})

	return r
}

// Start listens until the context is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("Shutting down HTTP server")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
