package server

import (
	"context"
	"net/http"
	"time"

	"github.com/agrisense/agrisense-be/internal/auth"
	"github.com/agrisense/agrisense-be/internal/config"
	"github.com/agrisense/agrisense-be/internal/http/handlers"
	"github.com/agrisense/agrisense-be/internal/middleware"
	"github.com/agrisense/agrisense-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store) *Server {
	mux := http.NewServeMux()

	health := handlers.NewHealthHandler(time.Now())
	health.Register(mux)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	service := auth.NewService(store, hasher, tokens)

	authed := middleware.RequireAuth(tokens)
	requireAdmin := middleware.RequireAdmin(store)
	admin := func(next http.Handler) http.Handler {
		return authed(requireAdmin(next))
	}

	handlers.NewAuthHandler(service).Register(mux)
	handlers.NewProductHandler(store).Register(mux, authed, admin)
	handlers.NewOrderHandler(store, store).Register(mux, authed, admin)
	handlers.NewEngagementHandler(store).Register(mux, authed)

	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(mux))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
