package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/drivebox/apiserver/config"
	"github.com/drivebox/apiserver/internal/auth"
	"github.com/drivebox/apiserver/internal/handlers"
	"github.com/drivebox/apiserver/internal/logging"
	"github.com/drivebox/apiserver/internal/services"
	"github.com/drivebox/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        logging.Logger
}

// New constructs a Server with its full dependency graph: file-backed
// account store, token service, and chi router with basic middleware.
func New(ctx context.Context, cfg config.Config, log logging.Logger) (*Server, error) {
	log = log.With("component", "server")

	if _, err := os.Stat(cfg.DataFile); errors.Is(err, fs.ErrNotExist) {
		log.Warn(ctx, "accounts file not found, starting with an empty collection", "path", cfg.DataFile)
	}

	backend := store.NewFileBackend(cfg.DataFile)
	accountRepo := store.NewAccountRepository(backend)

	accountService := services.NewAccountService(accountRepo)
	fileService := services.NewFileService(accountService)

	tokenService := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL)
	authMiddleware := handlers.RequireAuth(tokenService)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		}),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, accountService, tokenService)
	})
	handlers.AccountRouter(router, accountService, authMiddleware)
	router.Route("/files", func(r chi.Router) {
		handlers.FileRouter(r, fileService, authMiddleware)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 3000
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info(ctx, "server configured", "port", port, "data_file", cfg.DataFile)

	return &Server{
		httpServer: httpServer,
		router:     router,
		log:        log,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	ctx := context.Background()
	s.log.Info(ctx, "server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Error(ctx, "server stopped", "error", err)
		return err
	}
	return nil
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	return s.httpServer.Close()
}
