// Package api serves registered shapes and stored records over HTTP.
//
// Routes live under /api/v1 and require an X-API-Key header when a key is
// configured. Record bodies are JSON unless the request's Content-Type names
// YAML.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// Router builds the HTTP handler with all routes configured
func (s *Server) Router() http.Handler {
	m := s.metrics
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// unprotected for scraping
	r.Handle("/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(m.InstrumentAuthMiddleware(apiKeyMiddleware(s.config.APIKey)))

		r.Get("/health", m.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		r.Get("/shapes", m.InstrumentHandler("GET", "/api/v1/shapes", s.handleListShapes))
		r.Get("/shapes/{shape}", m.InstrumentHandler("GET", "/api/v1/shapes/{shape}", s.handleGetShape))

		r.Post("/records/{shape}", m.InstrumentHandler("POST", "/api/v1/records/{shape}", s.handleCreateRecord))
		r.Get("/records/{shape}", m.InstrumentHandler("GET", "/api/v1/records/{shape}", s.handleListRecords))
		r.Get("/records/{shape}/{id}", m.InstrumentHandler("GET", "/api/v1/records/{shape}/{id}", s.handleGetRecord))
		r.Delete("/records/{shape}/{id}", m.InstrumentHandler("DELETE", "/api/v1/records/{shape}/{id}", s.handleDeleteRecord))
	})

	return r
}

// Start serves the API until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting record API", "addr", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down record API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
