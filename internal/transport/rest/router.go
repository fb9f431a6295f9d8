package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/accessmodel-admin/api"
	"github.com/frahmantamala/accessmodel-admin/internal/dashboard"
	"github.com/frahmantamala/accessmodel-admin/internal/identity"
	"github.com/frahmantamala/accessmodel-admin/internal/transport/middleware"
	"github.com/frahmantamala/accessmodel-admin/internal/transport/swagger"
	"github.com/frahmantamala/accessmodel-admin/internal/warehouse"
	"github.com/frahmantamala/accessmodel-admin/pkg/metrics"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type Dependencies struct {
	Warehouse     warehouse.Gateway
	Dashboard     *dashboard.Handler
	Sessions      *dashboard.Store
	Tokens        *dashboard.Tokens
	Identity      *identity.Resolver
	OpenAPI       *openapi3.T
	MetricsPath   string
	SecureCookies bool
	Logger        *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, deps Dependencies) error {
	var validate func(http.Handler) http.Handler
	if deps.OpenAPI != nil {
		v, err := middleware.ValidateRequests(deps.OpenAPI)
		if err != nil {
			return err
		}
		validate = v
	}

	healthHandler := NewHealthHandler(deps.Warehouse, deps.Sessions.Len)
	withSession := middleware.Session(deps.Sessions, deps.Tokens, deps.SecureCookies)

	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.TraceID)
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.CallerContext(deps.Identity))
	router.Use(middleware.LoggingMiddleware(deps.Logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.Spec)
	})
	router.Handle("/swagger/*", swagger.Handler())
	if deps.MetricsPath != "" {
		router.Handle(deps.MetricsPath, metrics.Handler())
	}

	// Browser surface
	router.Group(func(r chi.Router) {
		r.Use(withSession)
		r.Get("/", deps.Dashboard.Page)
		r.Get("/view", deps.Dashboard.View)
		r.Post("/events", deps.Dashboard.PostEvent)
	})
	router.NotFound(withSession(http.HandlerFunc(deps.Dashboard.NotFound)).ServeHTTP)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Group(func(sr chi.Router) {
			if validate != nil {
				sr.Use(validate)
			}
			sr.Use(withSession)
			sr.Get("/state", deps.Dashboard.GetState)
			sr.Post("/events", deps.Dashboard.PostEventJSON)
		})
	})

	return nil
}
