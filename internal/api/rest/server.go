package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/advisorly/content-compliance-backend/internal/infrastructure/cache"
	"github.com/advisorly/content-compliance-backend/internal/infrastructure/config"
)

// Server wraps the HTTP server with its middleware stack.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// NewServer assembles the middleware chain around the handler's routes.
// rateLimiter may be nil when redis is not configured.
func NewServer(cfg *config.Config, handler *Handler, logger *slog.Logger, rateLimiter cache.RateLimiter) *Server {
	chained := Chain(handler.Routes(),
		RecoveryMiddleware(logger),
		RequestIDMiddleware,
		LoggingMiddleware(logger, handler.metrics),
		RateLimitMiddleware(rateLimiter, cfg.Security.RateLimit.RequestsPerSecond, time.Second),
		AuthMiddleware(cfg.Security.JWTSecret),
	)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      chained,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		logger: logger,
		cfg:    cfg,
	}
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down http server")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
