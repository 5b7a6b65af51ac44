package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Hitchyard/internal/intake"
	"github.com/MikeSquared-Agency/Hitchyard/internal/store"
)

func NewRouter(svc *intake.Service, s store.Store, adminToken string, rateLimitPerMin int, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(rateLimitPerMin))

	score := NewScoreHandler(svc)
	leads := NewLeadsHandler(svc, s)
	audits := NewAuditsHandler(svc, s)
	send := NewSendHandler(svc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/score", score.Score)
		r.Get("/variants", score.Variants)
		r.Post("/leads", leads.Create)
		r.Post("/audits", audits.Create)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Get("/leads", leads.List)
			r.Get("/leads/{id}", leads.Get)
			r.Get("/audits", audits.List)
		})
	})

	r.Post("/api/send", send.Send)

	return r
}

// NewMetricsRouter serves /health and /metrics. Health fails when the lead
// store cannot be reached.
func NewMetricsRouter(s store.Store) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if s != nil {
			if err := s.Ping(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
