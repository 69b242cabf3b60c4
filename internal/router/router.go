// file: internal/router/router.go
package router

import (
	"context"
	"net/http"
	"time"

	"faildaily/internal/cache"
	"faildaily/internal/config"
	"faildaily/internal/database"
	"faildaily/internal/handlers/api/v1/badges"
	"faildaily/internal/middleware"
	"faildaily/internal/response"
	"faildaily/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Dependencies holds everything the router needs to build handlers.
type Dependencies struct {
	Config   *config.Config
	DB       *database.Manager
	Cache    cache.Cache
	Services *services.ServiceCollection
	Logger   *zap.Logger
}

// New builds the HTTP routing tree with the shared middleware chain.
func New(deps *Dependencies) http.Handler {
	r := chi.NewRouter()

	auth := middleware.NewAuthenticator(deps.Config.Auth.JWTSecret, deps.Logger)
	builder := response.NewBuilder(deps.Logger)
	badgeController := badges.NewBadgeController(deps.Services.Badge, deps.Logger, builder)

	r.Use(middleware.RequestID(deps.Logger))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logging(time.Second))
	r.Use(middleware.CORS(""))

	r.Get("/health", healthHandler(deps))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/badges", func(r chi.Router) {
			r.With(auth.OptionalAuth).Get("/", badgeController.ListBadges)
			r.With(auth.RequireAuth).Get("/me", badgeController.GetMyBadges)
			r.With(auth.RequireAuth).Post("/check", badgeController.CheckBadges)
			r.Get("/{badgeID}", badgeController.GetBadge)
		})
	})

	return r
}

// healthHandler reports database and cache connectivity.
func healthHandler(deps *Dependencies) http.HandlerFunc {
	builder := response.NewBuilder(deps.Logger)
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := map[string]string{
			"status":   "healthy",
			"database": "up",
			"cache":    "up",
		}
		healthy := true

		if err := deps.DB.Ping(ctx); err != nil {
			status["database"] = "down"
			healthy = false
		}
		if deps.Cache != nil {
			if err := deps.Cache.Health(ctx); err != nil {
				status["cache"] = "down"
			}
		}

		if !healthy {
			status["status"] = "unhealthy"
			builder.WriteError(w, r, services.NewServiceUnavailableError("service dependencies unavailable"))
			return
		}
		builder.WriteSuccess(w, r, status)
	}
}
