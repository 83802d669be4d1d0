// Package ops serves the operational HTTP endpoints: Prometheus metrics
// and health checks. It runs beside the MCP transport so stdio sessions
// still expose observability over HTTP.
package ops

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	logpkg "github.com/veldt-labs/scout/internal/logger"
	"github.com/veldt-labs/scout/internal/metrics"
	"github.com/veldt-labs/scout/internal/usecase/health"
)

// Config holds listener settings.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server is the operational HTTP listener.
type Server struct {
	srv             *http.Server
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

// New creates an ops server exposing /metrics and /healthz.
func New(cfg Config, checker *health.Service, logger *zap.Logger) *Server {
	r := chi.NewRouter()
	r.Use(requestLogger(logger))
	r.Use(metrics.Middleware())

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/healthz", healthHandler(checker))

	return &Server{
		srv: &http.Server{
			Addr:         cfg.Addr,
			Handler:      r,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}
}

// Run blocks serving HTTP until Shutdown is called or the listener fails.
func (s *Server) Run() error {
	s.logger.Info("Starting ops HTTP listener", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

// requestLogger places a request-scoped logger in the context for handlers
// further down the chain.
func requestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := logger.With(
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)
			next.ServeHTTP(w, r.WithContext(logpkg.ContextWithLogger(r.Context(), reqLogger)))
		})
	}
}

func healthHandler(checker *health.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := checker.Check(r.Context())

		status := http.StatusOK
		if report.Status != health.Healthy {
			status = http.StatusServiceUnavailable
			logpkg.FromContext(r.Context()).Warn("health check degraded",
				zap.Any("checks", report.Checks))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": report.Status,
			"checks": report.Checks,
		})
	}
}
