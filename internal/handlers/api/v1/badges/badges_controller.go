// ===============================
// FILE: internal/handlers/api/v1/badges/badges_controller.go
// ===============================

package badges

import (
	"net/http"
	"strconv"

	"faildaily/internal/middleware"
	"faildaily/internal/response"
	"faildaily/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BadgeController handles badge API endpoints.
type BadgeController struct {
	badges          services.BadgeService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewBadgeController creates a new badge controller.
func NewBadgeController(
	badges services.BadgeService,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *BadgeController {
	return &BadgeController{
		badges:          badges,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// ===============================
// CATALOG ENDPOINTS
// ===============================

// ListBadges handles GET /api/v1/badges. Authentication is optional: when a
// valid token is present each badge carries the caller's unlock status.
func (c *BadgeController) ListBadges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var userID *int64
	if id, ok := middleware.GetUserID(ctx); ok {
		userID = &id
	}

	catalog, err := c.badges.ListBadges(ctx, userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"badges": catalog,
		"total":  len(catalog),
	})
}

// GetBadge handles GET /api/v1/badges/{badgeID}.
func (c *BadgeController) GetBadge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	badgeID, err := strconv.ParseInt(chi.URLParam(r, "badgeID"), 10, 64)
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("badge id must be an integer", err))
		return
	}

	badge, err := c.badges.GetBadge(ctx, badgeID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"badge": badge,
	})
}

// GetMyBadges handles GET /api/v1/badges/me.
func (c *BadgeController) GetMyBadges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("Authentication required"))
		return
	}

	grants, err := c.badges.GetUserBadges(ctx, userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"badges": grants,
		"total":  len(grants),
	})
}

// ===============================
// UNLOCK ENDPOINT
// ===============================

// CheckBadges handles POST /api/v1/badges/check. It re-evaluates the
// caller's badges and returns only the ones granted by this call.
func (c *BadgeController) CheckBadges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("Authentication required"))
		return
	}

	newlyGranted, err := c.badges.CheckAndUnlock(ctx, userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	if len(newlyGranted) > 0 {
		c.logger.Info("Badges unlocked via API",
			zap.Int64("user_id", userID),
			zap.Int("count", len(newlyGranted)),
		)
	}

	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"unlocked": newlyGranted,
		"count":    len(newlyGranted),
	})
}
