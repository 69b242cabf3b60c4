// file: internal/services/interface.go
package services

import (
	"context"
	"time"

	"faildaily/internal/models"
)

// ===============================
// CORE SERVICE INTERFACES
// ===============================

// BadgeService defines the badge unlock engine's business logic.
type BadgeService interface {
	// CheckAndUnlock evaluates every badge the user does not hold yet and
	// grants the ones whose requirement is now satisfied. It returns only
	// the badges newly granted by THIS call: a concurrent caller racing on
	// the same badge sees it absent from its own result. Safe to invoke
	// concurrently and repeatedly for the same user.
	CheckAndUnlock(ctx context.Context, userID int64) ([]*models.BadgeDefinition, error)

	// ListBadges returns the full catalog in display order. When userID is
	// non-nil each entry carries the user's unlock status.
	ListBadges(ctx context.Context, userID *int64) ([]*models.BadgeWithStatus, error)

	// GetBadge returns a single catalog entry, or a not-found error when
	// no badge has that id.
	GetBadge(ctx context.Context, badgeID int64) (*models.BadgeDefinition, error)

	// GetUserBadges returns the user's grants, newest first.
	GetUserBadges(ctx context.Context, userID int64) ([]*models.UserBadge, error)

	// BackfillGrantTimestamps stamps the user's grants that still lack a
	// granted_at value and reports how many rows were touched. Grants that
	// already carry a timestamp are left alone.
	BackfillGrantTimestamps(ctx context.Context, userID int64, grantedAt time.Time) (int, error)
}

// NotificationService is the fire-and-forget sink for unlock notifications.
// Delivery failures never propagate: grant correctness must not depend on
// notification delivery.
type NotificationService interface {
	NotifyBadgeUnlocked(ctx context.Context, userID, badgeID int64, badgeName string)
}
