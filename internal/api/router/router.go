package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/vrisa/alertengine/internal/api/handlers"
	"github.com/vrisa/alertengine/internal/api/middleware"
	"github.com/vrisa/alertengine/internal/config"
	"github.com/vrisa/alertengine/internal/pkg/logger"
	"github.com/vrisa/alertengine/internal/pkg/metrics"
)

type Handlers struct {
	Health      *handlers.HealthHandler
	Measurement *handlers.MeasurementHandler
	Alert       *handlers.AlertHandler
	Threshold   *handlers.ThresholdHandler
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(metrics.Middleware)
	// Logger wraps the writer handlers see, so handlers can add log fields
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.SecurityHeaders(cfg.Server.Environment == "production"))
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))

	// Operational endpoints
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/health", h.Health.Healthz)
	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/measurements", func(r chi.Router) {
			r.Post("/", h.Measurement.Create)
			r.Get("/station/{id}", h.Measurement.ListByStation)
			r.Get("/sensor/{id}", h.Measurement.ListBySensor)
		})

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", h.Alert.List)
			r.Get("/summary", h.Alert.Summary)
			r.Get("/{id}", h.Alert.Get)
			r.Put("/{id}/resolve", h.Alert.Resolve)
		})

		r.Route("/thresholds", func(r chi.Router) {
			r.Get("/", h.Threshold.List)
			r.Get("/{variableID}", h.Threshold.Get)
			r.Put("/{variableID}", h.Threshold.Set)
		})
	})

	return r
}
