// Package httptransport composes the HTTP surface: public lifecycle
// endpoints, JWT-guarded administrative endpoints, health, and metrics.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cloudid/internal/identity/handler"
	"cloudid/internal/platform/middleware"
	"cloudid/pkg/platform/httputil"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// Dependencies carries everything the router needs.
type Dependencies struct {
	Identity       *handler.Handler
	AdminValidator *middleware.AdminValidator
	Logger         *slog.Logger

	// HealthChecks are probed by /healthz, keyed by dependency name.
	HealthChecks map[string]HealthCheck
}

// NewRouter wires all endpoints. Handlers stay thin; business rules live in
// the services they delegate to.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.CertSubject)

	deps.Identity.Register(r)

	r.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAdmin(deps.AdminValidator, deps.Logger))
		deps.Identity.RegisterAdmin(admin)
	})

	r.Get("/healthz", healthHandler(deps.HealthChecks))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
			}
		}
		httputil.WriteJSON(w, status, body)
	}
}
