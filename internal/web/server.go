// Package web provides the deckport HTTP API.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ccollicutt/deckport/pkg/catalog"
	"github.com/ccollicutt/deckport/pkg/config"
	"github.com/ccollicutt/deckport/pkg/decklist"
	"github.com/ccollicutt/deckport/pkg/store"
	"github.com/ccollicutt/deckport/pkg/webhook"
)

// Deps are the collaborators the API serves.
type Deps struct {
	Parser  *decklist.Parser
	Catalog catalog.Catalog

	// Store is optional; deck routes answer 503 without it.
	Store store.Store

	// Notifier is optional; when set every import is reported to it.
	Notifier *webhook.Notifier

	Logger *zap.Logger
}

// Server is the HTTP server for deck import and export.
type Server struct {
	deps       Deps
	cfg        config.ServerConfig
	serializer *decklist.Serializer
	logger     *zap.Logger
	router     *chi.Mux
	server     *http.Server
}

// NewServer creates a new Server instance.
func NewServer(cfg config.ServerConfig, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = config.DefaultMaxBodyBytes
	}

	serializer := decklist.NewSerializer()
	if deps.Parser != nil {
		serializer.MaxCopies = deps.Parser.Limits().MaxCopies
	}

	s := &Server{
		deps:       deps,
		cfg:        cfg,
		serializer: serializer,
		logger:     logger,
		router:     chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestSize(s.cfg.MaxBodyBytes))
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/import", s.handleImport)
		r.Post("/export", s.handleExport)

		r.Get("/cards", s.handleListCards)
		r.Get("/cards/{id}", s.handleGetCard)

		r.Get("/decks", s.handleListDecks)
		r.Get("/decks/{name}", s.handleGetDeck)
		r.Put("/decks/{name}", s.handlePutDeck)
		r.Delete("/decks/{name}", s.handleDeleteDeck)
	})
}

// Start listens on the configured address until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.cfg.Addr))
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server. A later Start returns immediately.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		next.ServeHTTP(w, r)
	})
}
