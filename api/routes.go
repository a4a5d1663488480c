/*
 * @module api/routes
 * @description Route table and middleware stack of the HTTP API
 * @architecture RESTful API
 * @documentReference DESIGN.md
 * @stateFlow stateless request handling over the active dataset snapshot
 * @rules Unified APIResponse envelope; admin routes mounted only when a token hash is configured
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs api/controllers, service/init.go
 */

package api

import (
	"peer-funding-service/api/controllers"
	"peer-funding-service/api/middleware"
	"peer-funding-service/service"
	"peer-funding-service/service/dashboard"
	"peer-funding-service/service/dataset"
	"peer-funding-service/service/event"
	"peer-funding-service/service/monitoring"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// Dependencies are the services the routes are bound to.
type Dependencies struct {
	Dashboard      *dashboard.Service
	Datasets       *dataset.Service
	Broadcaster    *event.Broadcaster
	Health         *monitoring.HealthChecker
	AdminTokenHash string
	CORSOrigins    []string
}

// InitRoute binds the routes to the globally wired services.
func InitRoute(r *chi.Mux) {
	deps := Dependencies{
		Dashboard:   service.GlobalDashboardService,
		Datasets:    service.GlobalDatasetService,
		Broadcaster: service.GlobalBroadcaster,
		Health:      service.GlobalHealthChecker,
	}
	if cfg := service.GlobalConfig; cfg != nil {
		deps.AdminTokenHash = cfg.Admin.TokenHash
		deps.CORSOrigins = cfg.Server.CORSOrigins
	}
	Mount(r, deps)
}

// Mount registers every route on r.
func Mount(r chi.Router, deps Dependencies) {
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)

	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.AdminTokenHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// SSE stays outside the JSON content-type group
	eventController := controllers.NewEventController(deps.Broadcaster)
	r.Get("/events", eventController.Stream)

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		healthController := controllers.NewHealthController(deps.Health)
		r.Get("/health", healthController.Health)
		r.Get("/ready", healthController.Ready)

		districtController := controllers.NewDistrictController(deps.Dashboard)
		r.Get("/options", districtController.GetOptions)
		r.Route("/districts", func(r chi.Router) {
			r.Get("/", districtController.ListDistricts)
			r.Get("/by-name/view", districtController.GetViewByName)
			r.Route("/{rcdts}", func(r chi.Router) {
				r.Get("/metrics", districtController.GetMetrics)
				r.Get("/view", districtController.GetView)
				r.Get("/staffing", districtController.GetStaffing)
			})
		})

		legislativeController := controllers.NewLegislativeController(deps.Dashboard)
		r.Route("/legislative", func(r chi.Router) {
			r.Get("/chambers", legislativeController.ListChambers)
			r.Get("/chambers/{chamber}/districts", legislativeController.ListDistrictNumbers)
			r.Get("/legislators", legislativeController.ListLegislators)
			r.Get("/view", legislativeController.GetView)
		})

		datasetController := controllers.NewDatasetController(deps.Datasets)
		r.Route("/datasets", func(r chi.Router) {
			r.Get("/versions", datasetController.ListVersions)

			adminAuth := middleware.NewAdminAuthMiddleware(deps.AdminTokenHash)
			if adminAuth.Enabled() {
				r.With(adminAuth.Middleware).Post("/reload", datasetController.Reload)
			}
		})
	})
}
