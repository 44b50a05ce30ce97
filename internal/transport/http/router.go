// Package http wires the chi router for the analysis service: request
// middleware, the analysis and health endpoints and the Prometheus
// metrics handler.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"claimsight/internal/config"
	"claimsight/internal/middleware"
	"claimsight/internal/services"
)

// RouterDeps carries everything the router needs.
type RouterDeps struct {
	Analysis *services.AnalysisService
	Health   *services.HealthService
	Metrics  http.Handler
	Config   config.ServerConfig
	Logger   *slog.Logger
}

// NewRouter assembles the full middleware chain and routes.
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(deps.Logger))
	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.Metrics)
	if deps.Config.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(deps.Config.RateLimitRPS, deps.Config.RateLimitBurst, deps.Logger)
		r.Use(limiter.Handler)
	}

	analysisHandler := NewAnalysisHandler(deps.Analysis, deps.Config.MaxRequestBody, deps.Logger)
	healthHandler := NewHealthHandler(deps.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/analysis", analysisHandler.Analyze)
		r.Get("/health", healthHandler.Check)
	})
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}

	return r
}
