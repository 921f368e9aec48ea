package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/storage"
)

type rateLimits struct {
	login   *ipRateLimiter
	contact *ipRateLimiter
}

// setupRoutes mounts the public surface and the authenticated admin API
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, limits rateLimits) {
	r.Route("/public", func(r chi.Router) {
		handlers.publicHandler.routes(r, limits.contact)
	})

	r.Route("/admin", func(r chi.Router) {
		r.With(limits.login.middleware).Post("/login", handlers.authHandler.login())

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)

			r.Get("/me", handlers.authHandler.me())
			r.Get("/dashboard", handlers.dashboardHandler.getDashboard())
			r.Post("/reorder/{collection}", handlers.reorderHandler.reorder())

			r.Route("/projects", handlers.projectHandler.routes)
			r.Route("/technologies", handlers.technologyHandler.routes)
			r.Route("/features", handlers.featureHandler.routes)
			r.Route("/skills", handlers.skillHandler.routes)
			r.Route("/experiences", handlers.experienceHandler.routes)
			r.Route("/educations", handlers.educationHandler.routes)
			r.Route("/certifications", handlers.certificationHandler.routes)
			r.Route("/testimonials", handlers.testimonialHandler.routes)
			r.Route("/messages", handlers.contactMessageHandler.routes)
		})
	})
}

// HealthResponse reports liveness and database reachability
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

// setupInfraRoutes mounts health, metrics and, for the local store, the
// uploaded files
func setupInfraRoutes(r chi.Router, db database.Database, store storage.Store, startupTime time.Time) {
	responder := NewResponder(log.With().Str("handlerName", "healthHandler").Logger())

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		resp := HealthResponse{Status: "ok", Database: "ok", Uptime: time.Since(startupTime).Round(time.Second).String()}
		status := http.StatusOK
		if err := db.Ping(); err != nil {
			log.Warn().Err(err).Msg("Health check could not reach the database")
			resp.Status, resp.Database = "degraded", "unreachable"
			status = http.StatusServiceUnavailable
		}
		responder.WriteJSONStatus(w, status, resp)
	})

	r.Handle("/metrics", promhttp.Handler())

	if local, ok := store.(*storage.LocalStore); ok {
		fs := http.StripPrefix("/storage", http.FileServer(http.Dir(local.BasePath())))
		r.Handle("/storage/*", fs)
	}
}
