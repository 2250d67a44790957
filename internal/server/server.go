package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"

	"bro/internal/application/port/output"
	"bro/internal/infrastructure/env"
)

type Server struct {
	httpServer *http.Server
	logger     output.LoggerPort
}

func New(h *Handler, cfg env.Config, logger output.LoggerPort) *Server {
	requestLogger := httplog.NewLogger("bro-api", httplog.Options{
		JSON:    cfg.Environment != "development",
		Concise: true,
	})

	limiter := newRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(httplog.RequestLogger(requestLogger))
	r.Use(corsMiddleware)
	r.Use(recoverJSON(logger))

	r.Get("/", h.handleRoot)
	r.Get("/health", h.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.With(limiter.Middleware).Post("/search", h.handleSearch)
		r.Get("/health", h.handleHealth)
		r.Get("/status", h.handleStatus)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown waits for in-flight tasks; their deferred session closes
// run before handlers return.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
