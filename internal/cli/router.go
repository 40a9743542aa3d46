package cli

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/microshop/microshop/internal/config"
	"github.com/microshop/microshop/internal/handler"
	"github.com/microshop/microshop/internal/metrics"
	"github.com/microshop/microshop/internal/middleware"
)

// routerDeps carries what setupRouter needs for either service.
// exposition serves /metrics when set; routes register the resource endpoints.
type routerDeps struct {
	cfg        *config.Config
	logger     *slog.Logger
	health     *handler.HealthHandler
	recorder   metrics.Recorder
	exposition http.Handler
	routes     []func(chi.Router)
}

// setupRouter configures the chi router with the shared middleware chain,
// health and metrics endpoints and the service's resource routes.
func setupRouter(deps routerDeps) *chi.Mux {
	h := handler.New()
	r := chi.NewRouter()

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = deps.cfg.GetCORSAllowedOrigins()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Metrics(deps.recorder))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: deps.cfg.IsDevelopment()}))
	r.Use(middleware.CORS(cors))
	r.Use(middleware.MaxBodySize(deps.cfg.MaxRequestBodySize))

	r.Get("/health", deps.health.Health)
	r.Get("/db/health", deps.health.DBHealth)
	if deps.exposition != nil {
		r.Method(http.MethodGet, "/metrics", deps.exposition)
	}

	for _, register := range deps.routes {
		register(r)
	}

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
