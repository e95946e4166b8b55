// Package httpserver provides the HTTP API of the knowledge engine.
package httpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/spacebio/knowledge-engine/internal/abstract"
	"github.com/spacebio/knowledge-engine/internal/config"
	"github.com/spacebio/knowledge-engine/internal/observability"
	"github.com/spacebio/knowledge-engine/internal/reputation"
	"github.com/spacebio/knowledge-engine/internal/search"
	"github.com/spacebio/knowledge-engine/internal/summarize"
	"github.com/spacebio/knowledge-engine/internal/translate"
)

// Services bundles the domain services the HTTP layer exposes.
type Services struct {
	Search     *search.Service
	Abstracts  *abstract.Service
	Reputation *reputation.Scorer
	Summarizer *summarize.Service
	Translator *translate.Service
}

// Server is the HTTP API server.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	services   Services
	staticDir  string
	validate   *validator.Validate
	logger     zerolog.Logger
	metrics    *observability.Metrics
}

// NewServer creates a new HTTP server with all dependencies. metrics may be
// nil.
func NewServer(cfg config.ServerConfig, services Services, logger zerolog.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		services:  services,
		staticDir: cfg.StaticDir,
		validate:  validator.New(),
		logger:    logger.With().Str("component", "http-server").Logger(),
		metrics:   metrics,
	}

	s.router = s.buildRouter()

	s.httpServer = &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// buildRouter creates the chi router with all middleware and routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(correlationIDMiddleware)
	r.Use(s.metricsMiddleware)

	// Health endpoints
	r.Get("/healthz", s.healthHandler)
	r.Get("/readyz", s.readinessHandler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(jsonContentTypeMiddleware)

		r.Get("/search", s.searchHandler)
		r.Get("/abstract/{pmid}", s.abstractHandler)
		r.Get("/reputation/{pmid}", s.reputationHandler)
		r.Post("/summarize", s.summarizeHandler)
		r.Post("/translate", s.translateHandler)
	})

	// Static client
	r.Get("/", s.indexHandler)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir))))

	return r
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.httpServer.Addr).Msg("HTTP server starting")
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the handler tree, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// healthHandler returns basic liveness status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readinessHandler returns readiness status. The engine holds no connections
// or state of its own; once serving, it is ready.
func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// indexHandler serves the bundled client page.
func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.staticDir, "index.html"))
}
