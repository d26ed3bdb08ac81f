package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/baechuer/craft-marketplace/services/recs-service/internal/config"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/metrics"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/transport/http/handlers"
	authmw "github.com/baechuer/craft-marketplace/services/recs-service/internal/transport/http/middleware"
)

func New(
	rec *handlers.RecommendationsHandler,
	track *handlers.TrackHandler,
	an *handlers.AnalyticsHandler,
	auth *authmw.AuthMiddleware,
	z *handlers.HealthHandler,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	r.Use(authmw.RequestID)
	r.Use(authmw.SecurityHeaders)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(authmw.AccessLog)

	if cfg.RLEnabled {
		r.Use(httprate.LimitByIP(cfg.RLLimit, cfg.RLWindow))
	}

	r.Get("/healthz", z.Healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/recs/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.Require)
			r.Get("/recommendations", rec.Get)
			r.Post("/track", track.Track)
			r.Get("/sellers/{seller_id}/analytics", an.SellerStats)
		})
	})

	return r
}
