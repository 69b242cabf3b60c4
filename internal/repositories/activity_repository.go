// file: internal/repositories/activity_repository.go
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"faildaily/internal/database"
	"faildaily/internal/models"

	"github.com/lib/pq"
)

// activityRepository implements ActivityRepository with read-only aggregate
// queries over the collaborator-owned users/fails/comments/reactions tables.
type activityRepository struct {
	*BaseRepository
}

// NewActivityRepository creates a new activity repository.
func NewActivityRepository(db *database.Manager) ActivityRepository {
	return &activityRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// ===============================
// VOLUME COUNTERS
// ===============================

func (r *activityRepository) CountFails(ctx context.Context, userID int64) (int, error) {
	return r.countQuery(ctx, `SELECT COUNT(*) FROM fails WHERE user_id = $1`, userID)
}

func (r *activityRepository) CountComments(ctx context.Context, userID int64) (int, error) {
	return r.countQuery(ctx, `SELECT COUNT(*) FROM comments WHERE user_id = $1`, userID)
}

func (r *activityRepository) CountDistinctCategories(ctx context.Context, userID int64) (int, error) {
	return r.countQuery(ctx,
		`SELECT COUNT(DISTINCT category) FROM fails WHERE user_id = $1`, userID)
}

// ===============================
// REACTIONS
// ===============================

func (r *activityRepository) CountReactionsReceived(ctx context.Context, userID int64, reactionType models.ReactionType) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reactions r
		JOIN fails f ON f.id = r.fail_id
		WHERE f.user_id = $1 AND r.reaction_type = $2`
	return r.countQuery(ctx, query, userID, string(reactionType))
}

// CountReactionsGiven counts reactions the user issued. An empty type list
// counts reactions of every type.
func (r *activityRepository) CountReactionsGiven(ctx context.Context, userID int64, reactionTypes []models.ReactionType) (int, error) {
	if len(reactionTypes) == 0 {
		return r.countQuery(ctx, `SELECT COUNT(*) FROM reactions WHERE user_id = $1`, userID)
	}

	types := make([]string, len(reactionTypes))
	for i, t := range reactionTypes {
		types[i] = string(t)
	}
	query := `SELECT COUNT(*) FROM reactions WHERE user_id = $1 AND reaction_type = ANY($2)`
	return r.countQuery(ctx, query, userID, pq.Array(types))
}

// CountFirstReactions counts how many of the user's reactions were the
// earliest reaction on their target fail (ties broken by insertion order).
func (r *activityRepository) CountFirstReactions(ctx context.Context, userID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reactions r
		WHERE r.user_id = $1
		  AND r.id = (
			SELECT r2.id FROM reactions r2
			WHERE r2.fail_id = r.fail_id
			ORDER BY r2.created_at, r2.id
			LIMIT 1
		  )`
	return r.countQuery(ctx, query, userID)
}

// ===============================
// AUDIENCE
// ===============================

func (r *activityRepository) CountDistinctReactors(ctx context.Context, userID int64, excludeSelf bool) (int, error) {
	query := `
		SELECT COUNT(DISTINCT r.user_id)
		FROM reactions r
		JOIN fails f ON f.id = r.fail_id
		WHERE f.user_id = $1`
	if excludeSelf {
		query += ` AND r.user_id <> $1`
	}
	return r.countQuery(ctx, query, userID)
}

// ===============================
// ACCOUNT LIFETIME
// ===============================

func (r *activityRepository) AccountCreatedAt(ctx context.Context, userID int64) (time.Time, error) {
	var createdAt time.Time
	err := r.QueryRowContext(ctx,
		`SELECT created_at FROM users WHERE id = $1`, userID).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("user %d not found", userID)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read account creation date: %w", err)
	}
	return createdAt, nil
}

// CountActivityOnMonthDay counts fails, comments and reactions created on
// the given calendar day of any year.
func (r *activityRepository) CountActivityOnMonthDay(ctx context.Context, userID int64, month time.Month, day int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM (
			SELECT created_at FROM fails WHERE user_id = $1
			UNION ALL
			SELECT created_at FROM comments WHERE user_id = $1
			UNION ALL
			SELECT created_at FROM reactions WHERE user_id = $1
		) activity
		WHERE EXTRACT(MONTH FROM created_at) = $2
		  AND EXTRACT(DAY FROM created_at) = $3`
	return r.countQuery(ctx, query, userID, int(month), day)
}

// ===============================
// CALENDAR WINDOWS
// ===============================

func (r *activityRepository) CountFailsOnMonthDay(ctx context.Context, userID int64, month time.Month, day int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM fails
		WHERE user_id = $1
		  AND EXTRACT(MONTH FROM created_at) = $2
		  AND EXTRACT(DAY FROM created_at) = $3`
	return r.countQuery(ctx, query, userID, int(month), day)
}

// CountFailsInCalendarWindows counts fails whose month/day falls inside any
// of the given windows. Windows are compared on a month*100+day key so a
// window may span month boundaries within one year.
func (r *activityRepository) CountFailsInCalendarWindows(ctx context.Context, userID int64, windows []MonthDayWindow) (int, error) {
	if len(windows) == 0 {
		return 0, nil
	}

	args := []interface{}{userID}
	clauses := make([]string, 0, len(windows))
	for _, w := range windows {
		start := int(w.StartMonth)*100 + w.StartDay
		end := int(w.EndMonth)*100 + w.EndDay
		clauses = append(clauses, fmt.Sprintf(
			"(EXTRACT(MONTH FROM created_at)::int * 100 + EXTRACT(DAY FROM created_at)::int) BETWEEN $%d AND $%d",
			len(args)+1, len(args)+2,
		))
		args = append(args, start, end)
	}

	query := fmt.Sprintf(
		`SELECT COUNT(*) FROM fails WHERE user_id = $1 AND (%s)`,
		strings.Join(clauses, " OR "),
	)
	return r.countQuery(ctx, query, args...)
}

// CountFailsInHourWindow counts fails posted inside [startHour, endHour).
// The window wraps midnight when startHour > endHour, e.g. 23 → 1 covers
// 23:00–00:59.
func (r *activityRepository) CountFailsInHourWindow(ctx context.Context, userID int64, startHour, endHour int) (int, error) {
	query := `SELECT COUNT(*) FROM fails WHERE user_id = $1 AND ` + hourWindowClause(startHour, endHour)
	return r.countQuery(ctx, query, userID, startHour, endHour)
}

// hourWindowClause builds the hour predicate for [startHour, endHour) with
// the bounds bound to $2 and $3. A start past the end wraps midnight, so the
// row's hour may fall on either side of it: 23 → 1 admits a fail at 23:30 or
// 00:30 but not one at 02:00.
func hourWindowClause(startHour, endHour int) string {
	if startHour <= endHour {
		return `EXTRACT(HOUR FROM created_at) >= $2 AND EXTRACT(HOUR FROM created_at) < $3`
	}
	return `(EXTRACT(HOUR FROM created_at) >= $2 OR EXTRACT(HOUR FROM created_at) < $3)`
}

func (r *activityRepository) CountFailsOnWeekends(ctx context.Context, userID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM fails
		WHERE user_id = $1 AND EXTRACT(ISODOW FROM created_at) IN (6, 7)`
	return r.countQuery(ctx, query, userID)
}

// ===============================
// CADENCE
// ===============================

// CountPostGaps counts the gaps between consecutive fails that exceed
// minGapDays, i.e. how often the user came back after a long silence.
func (r *activityRepository) CountPostGaps(ctx context.Context, userID int64, minGapDays int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM (
			SELECT created_at - LAG(created_at) OVER (ORDER BY created_at) AS gap
			FROM fails
			WHERE user_id = $1
		) gaps
		WHERE gap > make_interval(days => $2)`
	return r.countQuery(ctx, query, userID, minGapDays)
}

// LongestDailyStreak returns the longest run of consecutive calendar days
// with at least one fail (gaps-and-islands over distinct post days).
func (r *activityRepository) LongestDailyStreak(ctx context.Context, userID int64) (int, error) {
	query := `
		SELECT COALESCE(MAX(streak), 0)
		FROM (
			SELECT COUNT(*) AS streak
			FROM (
				SELECT d, d - (ROW_NUMBER() OVER (ORDER BY d))::int AS island
				FROM (
					SELECT DISTINCT created_at::date AS d
					FROM fails
					WHERE user_id = $1
				) days
			) runs
			GROUP BY island
		) streaks`
	return r.countQuery(ctx, query, userID)
}

func (r *activityRepository) CountActiveMonths(ctx context.Context, userID int64) (int, error) {
	query := `
		SELECT COUNT(DISTINCT date_trunc('month', created_at))
		FROM fails
		WHERE user_id = $1`
	return r.countQuery(ctx, query, userID)
}

func (r *activityRepository) CountActiveDays(ctx context.Context, userID int64) (int, error) {
	query := `
		SELECT COUNT(DISTINCT created_at::date)
		FROM fails
		WHERE user_id = $1`
	return r.countQuery(ctx, query, userID)
}

// ===============================
// QUALIFYING-POST COUNTERS
// ===============================

// CountFailsWithMinReactions counts the user's fails that individually
// collected at least perPostMin reactions, optionally of a single type.
func (r *activityRepository) CountFailsWithMinReactions(ctx context.Context, userID int64, reactionType *models.ReactionType, perPostMin int) (int, error) {
	args := []interface{}{userID, perPostMin}
	typeFilter := ""
	if reactionType != nil {
		typeFilter = " AND r.reaction_type = $3"
		args = append(args, string(*reactionType))
	}

	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM (
			SELECT r.fail_id
			FROM reactions r
			JOIN fails f ON f.id = r.fail_id
			WHERE f.user_id = $1%s
			GROUP BY r.fail_id
			HAVING COUNT(*) >= $2
		) qualifying`, typeFilter)
	return r.countQuery(ctx, query, args...)
}

// CountFailsWithMinComments counts the user's fails that individually
// collected at least perPostMin comments.
func (r *activityRepository) CountFailsWithMinComments(ctx context.Context, userID int64, perPostMin int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM (
			SELECT c.fail_id
			FROM comments c
			JOIN fails f ON f.id = c.fail_id
			WHERE f.user_id = $1
			GROUP BY c.fail_id
			HAVING COUNT(*) >= $2
		) qualifying`
	return r.countQuery(ctx, query, userID, perPostMin)
}

// ===============================
// RANKING
// ===============================

// RankByPoints returns the user's 1-based rank in the global points
// ranking. Users with zero points carry no ranking row; 0 means unranked.
func (r *activityRepository) RankByPoints(ctx context.Context, userID int64) (int, error) {
	query := `
		SELECT rank
		FROM (
			SELECT id, RANK() OVER (ORDER BY points DESC) AS rank
			FROM users
			WHERE points > 0 AND is_active = true
		) ranking
		WHERE id = $1`

	var rank int
	err := r.QueryRowContext(ctx, query, userID).Scan(&rank)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to compute rank: %w", err)
	}
	return rank, nil
}

// ===============================
// CONTENT HEURISTICS
// ===============================

// CountFailsMatching counts fails whose description contains any of the
// keywords (case-insensitive) or whose category equals the given one.
func (r *activityRepository) CountFailsMatching(ctx context.Context, userID int64, keywords []string, category string) (int, error) {
	args := []interface{}{userID}
	var clauses []string
	for _, kw := range keywords {
		clauses = append(clauses, fmt.Sprintf("description ILIKE $%d", len(args)+1))
		args = append(args, "%"+kw+"%")
	}
	if category != "" {
		clauses = append(clauses, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, category)
	}
	if len(clauses) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(
		`SELECT COUNT(*) FROM fails WHERE user_id = $1 AND (%s)`,
		strings.Join(clauses, " OR "),
	)
	return r.countQuery(ctx, query, args...)
}

// CountEncouragementComments counts comments flagged as encouragement or
// whose body contains any of the advice keywords.
func (r *activityRepository) CountEncouragementComments(ctx context.Context, userID int64, keywords []string) (int, error) {
	args := []interface{}{userID}
	clauses := []string{"is_encouragement = true"}
	for _, kw := range keywords {
		clauses = append(clauses, fmt.Sprintf("body ILIKE $%d", len(args)+1))
		args = append(args, "%"+kw+"%")
	}

	query := fmt.Sprintf(
		`SELECT COUNT(*) FROM comments WHERE user_id = $1 AND (%s)`,
		strings.Join(clauses, " OR "),
	)
	return r.countQuery(ctx, query, args...)
}

// ===============================
// FEATURE-AREA FLAGS
// ===============================

func (r *activityRepository) HasAvatar(ctx context.Context, userID int64) (bool, error) {
	return r.existsQuery(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND avatar_url IS NOT NULL AND avatar_url <> '')`,
		userID)
}

func (r *activityRepository) HasAnyFail(ctx context.Context, userID int64) (bool, error) {
	return r.existsQuery(ctx,
		`SELECT EXISTS(SELECT 1 FROM fails WHERE user_id = $1)`, userID)
}

func (r *activityRepository) HasAnyComment(ctx context.Context, userID int64) (bool, error) {
	return r.existsQuery(ctx,
		`SELECT EXISTS(SELECT 1 FROM comments WHERE user_id = $1)`, userID)
}

func (r *activityRepository) HasAnyReaction(ctx context.Context, userID int64) (bool, error) {
	return r.existsQuery(ctx,
		`SELECT EXISTS(SELECT 1 FROM reactions WHERE user_id = $1)`, userID)
}

func (r *activityRepository) existsQuery(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var exists bool
	if err := r.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
