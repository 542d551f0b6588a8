// Package rest wires the HTTP surface: routing, middleware, and the
// translation between transport and application handlers.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"polymath-backend/interfaces/http/rest/handlers"
	"polymath-backend/interfaces/http/rest/middleware"
	"polymath-backend/pkg/auth"
	"polymath-backend/pkg/observability"
)

// Router creates and configures the HTTP router
type Router struct {
	search     *handlers.SearchHandler
	reviews    *handlers.ReviewHandler
	insights   *handlers.InsightHandler
	validator  *auth.JWTValidator
	metrics    *observability.Collector
	enableCORS bool
	logger     *zap.Logger
}

// NewRouter creates a new router instance. A nil validator enables the
// development header-auth fallback.
func NewRouter(
	search *handlers.SearchHandler,
	reviews *handlers.ReviewHandler,
	insights *handlers.InsightHandler,
	validator *auth.JWTValidator,
	metrics *observability.Collector,
	enableCORS bool,
	logger *zap.Logger,
) *Router {
	return &Router{
		search:     search,
		reviews:    reviews,
		insights:   insights,
		validator:  validator,
		metrics:    metrics,
		enableCORS: enableCORS,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics(rt.metrics))

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.polymath.app"},
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Operational endpoints
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	router.Handle("/metrics", promhttp.HandlerFor(rt.metrics.Registry(), promhttp.HandlerOpts{}))

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.validator, rt.logger))

		r.Get("/search", rt.search.Search)
		r.Post("/search", rt.search.SearchPost)

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/due", rt.reviews.DueReviews)
			r.Post("/{noteID}", rt.reviews.MarkReviewed)
		})

		r.Route("/insights", func(r chi.Router) {
			r.Get("/themes", rt.insights.Themes)
			r.Get("/temporal", rt.insights.Temporal)
			r.Get("/evolution", rt.insights.Evolution)
			r.Delete("/cache", rt.insights.InvalidateCache)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
