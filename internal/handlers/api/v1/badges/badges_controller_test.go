// ===============================
// FILE: internal/handlers/api/v1/badges/badges_controller_test.go
// ===============================

package badges

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"faildaily/internal/models"
	"faildaily/internal/response"
	"faildaily/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeBadgeService returns canned answers for handler tests.
type fakeBadgeService struct {
	badge *models.BadgeDefinition
	err   error
}

func (f *fakeBadgeService) CheckAndUnlock(ctx context.Context, userID int64) ([]*models.BadgeDefinition, error) {
	return nil, f.err
}

func (f *fakeBadgeService) ListBadges(ctx context.Context, userID *int64) ([]*models.BadgeWithStatus, error) {
	return nil, f.err
}

func (f *fakeBadgeService) GetBadge(ctx context.Context, badgeID int64) (*models.BadgeDefinition, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.badge, nil
}

func (f *fakeBadgeService) GetUserBadges(ctx context.Context, userID int64) ([]*models.UserBadge, error) {
	return nil, f.err
}

func (f *fakeBadgeService) BackfillGrantTimestamps(ctx context.Context, userID int64, grantedAt time.Time) (int, error) {
	return 0, f.err
}

func newTestController(svc services.BadgeService) *BadgeController {
	return NewBadgeController(svc, zap.NewNop(), response.NewBuilder(zap.NewNop()))
}

// getBadgeRequest builds a request carrying the badgeID URL parameter the
// way the chi router would.
func getBadgeRequest(id string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/badges/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("badgeID", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGetBadgeReturnsCatalogEntry(t *testing.T) {
	controller := newTestController(&fakeBadgeService{
		badge: &models.BadgeDefinition{ID: 7, Name: "Premier pas"},
	})

	rec := httptest.NewRecorder()
	controller.GetBadge(rec, getBadgeRequest("7"))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Badge models.BadgeDefinition `json:"badge"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Premier pas", body.Data.Badge.Name)
}

func TestGetBadgeRejectsNonNumericID(t *testing.T) {
	controller := newTestController(&fakeBadgeService{})

	rec := httptest.NewRecorder()
	controller.GetBadge(rec, getBadgeRequest("latest"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBadgeUnknownIDIsNotFound(t *testing.T) {
	controller := newTestController(&fakeBadgeService{
		err: services.NewNotFoundError("badge 99 does not exist"),
	})

	rec := httptest.NewRecorder()
	controller.GetBadge(rec, getBadgeRequest("99"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
