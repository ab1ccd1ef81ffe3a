// Package server wires the HTTP routes and runs the listener.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/authd/internal/server/handlers"
	"github.com/iudanet/authd/internal/server/middleware"
	"github.com/iudanet/authd/internal/server/token"
)

// shutdownTimeout bounds how long in-flight requests may finish on shutdown.
const shutdownTimeout = 10 * time.Second

// Server is the HTTP front of the auth service.
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
}

// New builds the route table and the listener.
func New(logger *slog.Logger, addr string, authHandler *handlers.AuthHandler, healthHandler *handlers.HealthHandler, tokenCfg token.Config) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("POST /api/auth/verify-email", authHandler.VerifyEmail)
	mux.HandleFunc("POST /api/auth/forgot-password", authHandler.ForgotPassword)
	mux.HandleFunc("POST /api/auth/reset-password/{token}", authHandler.ResetPassword)

	sessionAuth := middleware.SessionAuth(logger, tokenCfg)
	mux.Handle("GET /api/auth/check-authentication", sessionAuth(http.HandlerFunc(authHandler.CheckAuthentication)))

	mux.HandleFunc("GET /healthz", healthHandler.Health)

	var handler http.Handler = mux
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return &Server{
		logger: logger,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errC := make(chan error, 1)

	go func() {
		s.logger.Info("server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	select {
	case err := <-errC:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}
