// Package httpapi assembles the HTTP surface: public verification reads and
// creates, the admin override surface, health and Prometheus endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	verificationhandler "refguard/internal/verification/handler"

	"refguard/internal/platform/metrics"
	"refguard/internal/platform/middleware"
)

const healthTimeout = 2 * time.Second

// HealthChecker reports the health of one backing dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps carries everything the router mounts.
type Deps struct {
	Verification *verificationhandler.Handler
	AdminAuth    middleware.JWTValidator
	Logger       *slog.Logger
	Metrics      *metrics.Metrics

	// Health lists backing dependencies by name; nil checkers are skipped
	// so optional backends (redis) drop out cleanly.
	Health map[string]HealthChecker
}

// NewRouter wires middleware and routes. Business logic stays in the
// handler and service layers.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	r.Get("/healthz", healthHandler(deps.Health))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		deps.Verification.Register(api)

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.RequireAdmin(deps.AdminAuth, deps.Logger))
			deps.Verification.RegisterAdmin(admin)
		})
	})

	return r
}

func healthHandler(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		status := http.StatusOK
		report := make(map[string]string, len(checks))
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Health(ctx); err != nil {
				status = http.StatusServiceUnavailable
				report[name] = err.Error()
				continue
			}
			report[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(report)
	}
}
