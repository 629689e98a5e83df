package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cnr/internal/platform/metrics"
	"cnr/internal/platform/middleware"
	"cnr/pkg/platform/httputil"
	"cnr/pkg/platform/middleware/requestid"
	"cnr/pkg/platform/middleware/requesttime"
)

const requestTimeout = 30 * time.Second

// Registrar mounts a module's routes.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck probes a backing dependency. Nil checks are skipped.
type HealthCheck func(ctx context.Context) error

// Health describes the service on GET /health.
type Health struct {
	Service     string
	Version     string
	Authorities map[string]string
	Checks      map[string]HealthCheck
}

// RouterConfig collects what NewRouter needs. Gatherer defaults to the
// global Prometheus registry.
type RouterConfig struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Health   Health
}

// NewRouter wires shared middleware, health, metrics and module routes.
func NewRouter(cfg RouterConfig, modules ...Registrar) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.LatencyMiddleware(cfg.Metrics))

	r.Get("/health", healthHandler(cfg.Health))
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Group(func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)
		api.Use(timeout(requestTimeout))
		for _, m := range modules {
			m.Register(api)
		}
	})
	return r
}

// timeout bounds the request context; handlers observe it through ctx.
func timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type healthResponse struct {
	Service     string            `json:"service"`
	Status      string            `json:"status"`
	Version     string            `json:"version"`
	Authorities map[string]string `json:"authorities,omitempty"`
	Checks      map[string]string `json:"checks,omitempty"`
}

func healthHandler(h Health) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Service:     h.Service,
			Status:      "ok",
			Version:     h.Version,
			Authorities: h.Authorities,
		}
		status := http.StatusOK
		if len(h.Checks) > 0 {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			resp.Checks = make(map[string]string, len(h.Checks))
			for name, check := range h.Checks {
				if check == nil {
					continue
				}
				if err := check(ctx); err != nil {
					resp.Checks[name] = "unavailable"
					resp.Status = "degraded"
					status = http.StatusServiceUnavailable
					continue
				}
				resp.Checks[name] = "ok"
			}
		}
		httputil.WriteJSON(w, status, resp)
	}
}
