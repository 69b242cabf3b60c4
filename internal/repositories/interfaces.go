// file: internal/repositories/interfaces.go
package repositories

import (
	"context"
	"time"

	"faildaily/internal/models"
)

// ===============================
// CORE REPOSITORY INTERFACES
// ===============================

// BadgeRepository covers catalog reads and the grant ledger.
type BadgeRepository interface {
	// Catalog access
	ListAll(ctx context.Context) ([]*models.BadgeDefinition, error)
	GetByID(ctx context.Context, id int64) (*models.BadgeDefinition, error)

	// Grant ledger
	ListGrantedBadgeIDs(ctx context.Context, userID int64) (map[int64]struct{}, error)
	ListGrants(ctx context.Context, userID int64) ([]*models.UserBadge, error)

	// GrantIfAbsent atomically inserts a grant for (userID, badgeID) and
	// reports whether a new row was created. A duplicate from a racing
	// concurrent grant yields created=false and no error. This is the
	// single concurrency-correctness guarantee of the unlock engine: at
	// most one grant row per (user, badge) regardless of overlapping
	// callers.
	GrantIfAbsent(ctx context.Context, userID, badgeID int64) (created bool, err error)

	// BackfillGrantedAt sets the timestamp on grandfathered grants whose
	// granted_at is still NULL.
	BackfillGrantedAt(ctx context.Context, userID, badgeID int64, grantedAt time.Time) error
}

// ActivityRepository is the read-only aggregate data provider consulted by
// requirement evaluation. Every method derives one fact about a user from
// collaborator-owned tables; nothing here writes.
type ActivityRepository interface {
	// Volume counters
	CountFails(ctx context.Context, userID int64) (int, error)
	CountComments(ctx context.Context, userID int64) (int, error)
	CountDistinctCategories(ctx context.Context, userID int64) (int, error)

	// Reactions
	CountReactionsReceived(ctx context.Context, userID int64, reactionType models.ReactionType) (int, error)
	CountReactionsGiven(ctx context.Context, userID int64, reactionTypes []models.ReactionType) (int, error)
	CountFirstReactions(ctx context.Context, userID int64) (int, error)

	// Audience
	CountDistinctReactors(ctx context.Context, userID int64, excludeSelf bool) (int, error)

	// Account lifetime
	AccountCreatedAt(ctx context.Context, userID int64) (time.Time, error)
	CountActivityOnMonthDay(ctx context.Context, userID int64, month time.Month, day int) (int, error)

	// Calendar windows
	CountFailsOnMonthDay(ctx context.Context, userID int64, month time.Month, day int) (int, error)
	CountFailsInCalendarWindows(ctx context.Context, userID int64, windows []MonthDayWindow) (int, error)
	CountFailsInHourWindow(ctx context.Context, userID int64, startHour, endHour int) (int, error)
	CountFailsOnWeekends(ctx context.Context, userID int64) (int, error)

	// Cadence
	CountPostGaps(ctx context.Context, userID int64, minGapDays int) (int, error)
	LongestDailyStreak(ctx context.Context, userID int64) (int, error)
	CountActiveMonths(ctx context.Context, userID int64) (int, error)
	CountActiveDays(ctx context.Context, userID int64) (int, error)

	// Qualifying-post counters
	CountFailsWithMinReactions(ctx context.Context, userID int64, reactionType *models.ReactionType, perPostMin int) (int, error)
	CountFailsWithMinComments(ctx context.Context, userID int64, perPostMin int) (int, error)

	// Ranking. Returns the 1-based rank by points; 0 means the user has no
	// ranking row.
	RankByPoints(ctx context.Context, userID int64) (int, error)

	// Content heuristics
	CountFailsMatching(ctx context.Context, userID int64, keywords []string, category string) (int, error)
	CountEncouragementComments(ctx context.Context, userID int64, keywords []string) (int, error)

	// Feature-area flags for features_used
	HasAvatar(ctx context.Context, userID int64) (bool, error)
	HasAnyFail(ctx context.Context, userID int64) (bool, error)
	HasAnyComment(ctx context.Context, userID int64) (bool, error)
	HasAnyReaction(ctx context.Context, userID int64) (bool, error)
}

// NotificationRepository persists user-facing notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByUserID(ctx context.Context, userID int64, limit int) ([]*models.Notification, error)
	MarkAsRead(ctx context.Context, notificationID int64) error
}

// MonthDayWindow is an inclusive month/day range within any year, used for
// holiday-window counting. A window may not wrap across years; year-end
// wrapping is expressed as two windows.
type MonthDayWindow struct {
	StartMonth time.Month
	StartDay   int
	EndMonth   time.Month
	EndDay     int
}
