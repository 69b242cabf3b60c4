// file: internal/repositories/badge_repository.go
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"faildaily/internal/database"
	"faildaily/internal/models"

	"github.com/lib/pq"
)

// badgeRepository implements BadgeRepository against postgres.
type badgeRepository struct {
	*BaseRepository
}

// NewBadgeRepository creates a new badge repository.
func NewBadgeRepository(db *database.Manager) BadgeRepository {
	return &badgeRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// ===============================
// CATALOG ACCESS
// ===============================

// ListAll returns the complete badge catalog ordered for display.
func (r *badgeRepository) ListAll(ctx context.Context) ([]*models.BadgeDefinition, error) {
	query := `
		SELECT id, name, description, icon, category, rarity,
		       requirement_kind, requirement_value, created_at
		FROM badges
		ORDER BY
			CASE rarity
				WHEN 'common' THEN 0
				WHEN 'rare' THEN 1
				WHEN 'epic' THEN 2
				WHEN 'legendary' THEN 3
				ELSE 4
			END,
			id`

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	defer rows.Close()

	var badges []*models.BadgeDefinition
	for rows.Next() {
		badge, err := scanBadge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		badges = append(badges, badge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate badges: %w", err)
	}

	return badges, nil
}

// GetByID returns a single catalog entry.
func (r *badgeRepository) GetByID(ctx context.Context, id int64) (*models.BadgeDefinition, error) {
	query := `
		SELECT id, name, description, icon, category, rarity,
		       requirement_kind, requirement_value, created_at
		FROM badges
		WHERE id = $1`

	badge, err := scanBadge(r.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get badge %d: %w", id, err)
	}
	return badge, nil
}

// ===============================
// GRANT LEDGER
// ===============================

// ListGrantedBadgeIDs returns the set of badge ids the user already holds.
func (r *badgeRepository) ListGrantedBadgeIDs(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	query := `SELECT badge_id FROM user_badges WHERE user_id = $1`

	rows, err := r.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list granted badge ids: %w", err)
	}
	defer rows.Close()

	granted := make(map[int64]struct{})
	for rows.Next() {
		var badgeID int64
		if err := rows.Scan(&badgeID); err != nil {
			return nil, fmt.Errorf("failed to scan granted badge id: %w", err)
		}
		granted[badgeID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate granted badge ids: %w", err)
	}

	return granted, nil
}

// ListGrants returns the user's grants joined with their catalog entries.
func (r *badgeRepository) ListGrants(ctx context.Context, userID int64) ([]*models.UserBadge, error) {
	query := `
		SELECT ub.id, ub.user_id, ub.badge_id, ub.granted_at,
		       b.id, b.name, b.description, b.icon, b.category, b.rarity,
		       b.requirement_kind, b.requirement_value, b.created_at
		FROM user_badges ub
		JOIN badges b ON b.id = ub.badge_id
		WHERE ub.user_id = $1
		ORDER BY ub.granted_at DESC NULLS LAST, ub.id DESC`

	rows, err := r.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grants: %w", err)
	}
	defer rows.Close()

	var grants []*models.UserBadge
	for rows.Next() {
		grant := &models.UserBadge{Badge: &models.BadgeDefinition{}}
		var kind string
		err := rows.Scan(
			&grant.ID, &grant.UserID, &grant.BadgeID, &grant.GrantedAt,
			&grant.Badge.ID, &grant.Badge.Name, &grant.Badge.Description,
			&grant.Badge.Icon, &grant.Badge.Category, &grant.Badge.Rarity,
			&kind, &grant.Badge.Requirement.Threshold, &grant.Badge.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan grant: %w", err)
		}
		grant.Badge.Requirement.Kind = models.RequirementKind(kind)
		grants = append(grants, grant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate grants: %w", err)
	}

	return grants, nil
}

// GrantIfAbsent inserts a grant row, relying on the UNIQUE(user_id, badge_id)
// constraint for at-most-once semantics. Never read-then-write here:
// overlapping unlock checks for the same user must resolve at the database,
// not in application code.
func (r *badgeRepository) GrantIfAbsent(ctx context.Context, userID, badgeID int64) (bool, error) {
	query := `
		INSERT INTO user_badges (user_id, badge_id, granted_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, badge_id) DO NOTHING`

	result, err := r.ExecContext(ctx, query, userID, badgeID)
	if err != nil {
		// Serialization quirks can still surface the unique violation as an
		// error; a duplicate means somebody else won the race.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return false, nil
		}
		return false, fmt.Errorf("failed to grant badge %d to user %d: %w", badgeID, userID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read grant result: %w", err)
	}
	return affected == 1, nil
}

// BackfillGrantedAt stamps grandfathered grants that predate timestamp
// recording. Rows that already carry a timestamp are left untouched.
func (r *badgeRepository) BackfillGrantedAt(ctx context.Context, userID, badgeID int64, grantedAt time.Time) error {
	query := `
		UPDATE user_badges
		SET granted_at = $3
		WHERE user_id = $1 AND badge_id = $2 AND granted_at IS NULL`

	if _, err := r.ExecContext(ctx, query, userID, badgeID, grantedAt); err != nil {
		return fmt.Errorf("failed to backfill grant timestamp: %w", err)
	}
	return nil
}

// ===============================
// SCAN HELPERS
// ===============================

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBadge(row rowScanner) (*models.BadgeDefinition, error) {
	badge := &models.BadgeDefinition{}
	var kind string
	err := row.Scan(
		&badge.ID, &badge.Name, &badge.Description, &badge.Icon,
		&badge.Category, &badge.Rarity,
		&kind, &badge.Requirement.Threshold, &badge.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	badge.Requirement.Kind = models.RequirementKind(kind)
	return badge, nil
}
