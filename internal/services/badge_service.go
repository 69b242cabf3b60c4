// file: internal/services/badge_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"faildaily/internal/cache"
	"faildaily/internal/events"
	"faildaily/internal/models"
	"faildaily/internal/repositories"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

const badgeCatalogCacheKey = "badges:catalog"

// badgeService implements BadgeService. It owns no state between calls:
// concurrency correctness rests entirely on the grant ledger's atomic
// insert, never on in-process coordination.
type badgeService struct {
	badges     repositories.BadgeRepository
	evaluator  *Evaluator
	notifier   NotificationService
	bus        events.EventBus
	cache      cache.Cache
	catalogTTL time.Duration
	logger     *zap.Logger
}

// NewBadgeService creates the unlock engine.
func NewBadgeService(
	badges repositories.BadgeRepository,
	evaluator *Evaluator,
	notifier NotificationService,
	bus events.EventBus,
	catalogCache cache.Cache,
	catalogTTL time.Duration,
	logger *zap.Logger,
) BadgeService {
	return &badgeService{
		badges:     badges,
		evaluator:  evaluator,
		notifier:   notifier,
		bus:        bus,
		cache:      catalogCache,
		catalogTTL: catalogTTL,
		logger:     logger,
	}
}

// ===============================
// UNLOCK ORCHESTRATION
// ===============================

// CheckAndUnlock scans the catalog for badges the user newly qualifies for
// and grants each one at most once. A failing requirement evaluation or a
// failing grant insert never aborts the scan; only an unreadable catalog or
// ledger does, because without them no candidate set exists.
func (s *badgeService) CheckAndUnlock(ctx context.Context, userID int64) ([]*models.BadgeDefinition, error) {
	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, NewInternalError("failed to load badge catalog").withCause(err)
	}

	granted, err := s.badges.ListGrantedBadgeIDs(ctx, userID)
	if err != nil {
		return nil, NewInternalError("failed to load granted badges").withCause(err)
	}

	var newlyGranted []*models.BadgeDefinition
	var grantErrs *multierror.Error

	for _, badge := range catalog {
		if _, alreadyGranted := granted[badge.ID]; alreadyGranted {
			continue
		}
		if !s.evaluator.Evaluate(ctx, userID, badge.Requirement) {
			continue
		}

		created, err := s.badges.GrantIfAbsent(ctx, userID, badge.ID)
		if err != nil {
			// The badge stays ungranted and remains a candidate on the
			// next trigger. Keep scanning the rest.
			grantErrs = multierror.Append(grantErrs, err)
			s.logger.Error("Badge grant failed",
				zap.Int64("user_id", userID),
				zap.Int64("badge_id", badge.ID),
				zap.Error(err),
			)
			continue
		}
		if !created {
			// A concurrent check won the race; the badge belongs to that
			// caller's result, not ours.
			continue
		}

		newlyGranted = append(newlyGranted, badge)
		s.announceUnlock(ctx, userID, badge)
	}

	if grantErrs.ErrorOrNil() != nil {
		s.logger.Error("Some badge grants failed during unlock check",
			zap.Int64("user_id", userID),
			zap.Int("failed_grants", grantErrs.Len()),
			zap.Error(grantErrs),
		)
	}

	if len(newlyGranted) > 0 {
		s.logger.Info("Badges unlocked",
			zap.Int64("user_id", userID),
			zap.Int("count", len(newlyGranted)),
		)
	}

	return newlyGranted, nil
}

// announceUnlock publishes the unlock event and notifies the user.
// Both are best-effort: the grant is already durable.
func (s *badgeService) announceUnlock(ctx context.Context, userID int64, badge *models.BadgeDefinition) {
	if s.bus != nil {
		event := events.NewBadgeUnlockedEvent(userID, badge.ID, badge.Name)
		if err := s.bus.PublishAsync(ctx, event); err != nil {
			s.logger.Warn("Failed to publish badge unlocked event",
				zap.Int64("user_id", userID),
				zap.Int64("badge_id", badge.ID),
				zap.Error(err),
			)
		}
	}
	if s.notifier != nil {
		s.notifier.NotifyBadgeUnlocked(ctx, userID, badge.ID, badge.Name)
	}
}

// ===============================
// CATALOG READS
// ===============================

// ListBadges returns the catalog in display order, decorated with the
// caller's unlock state when a user is given.
func (s *badgeService) ListBadges(ctx context.Context, userID *int64) ([]*models.BadgeWithStatus, error) {
	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, NewInternalError("failed to load badge catalog").withCause(err)
	}

	grantedAt := make(map[int64]*time.Time)
	if userID != nil {
		grants, err := s.badges.ListGrants(ctx, *userID)
		if err != nil {
			return nil, NewInternalError("failed to load user badges").withCause(err)
		}
		for _, grant := range grants {
			grantedAt[grant.BadgeID] = grant.GrantedAt
		}
	}

	result := make([]*models.BadgeWithStatus, 0, len(catalog))
	for _, badge := range catalog {
		entry := &models.BadgeWithStatus{BadgeDefinition: *badge}
		if userID != nil {
			if ts, ok := grantedAt[badge.ID]; ok {
				entry.Unlocked = true
				entry.GrantedAt = ts
			}
		}
		result = append(result, entry)
	}
	return result, nil
}

// GetBadge returns a single catalog entry by id.
func (s *badgeService) GetBadge(ctx context.Context, badgeID int64) (*models.BadgeDefinition, error) {
	badge, err := s.badges.GetByID(ctx, badgeID)
	if err != nil {
		return nil, NewInternalError("failed to load badge").withCause(err)
	}
	if badge == nil {
		return nil, NewNotFoundError(fmt.Sprintf("badge %d does not exist", badgeID))
	}
	return badge, nil
}

// GetUserBadges returns the user's grants with their catalog entries.
func (s *badgeService) GetUserBadges(ctx context.Context, userID int64) ([]*models.UserBadge, error) {
	grants, err := s.badges.ListGrants(ctx, userID)
	if err != nil {
		return nil, NewInternalError("failed to load user badges").withCause(err)
	}
	return grants, nil
}

// BackfillGrantTimestamps stamps grandfathered grants that predate
// timestamp recording. The ledger update only touches rows whose
// granted_at is still NULL, so re-running it is harmless.
func (s *badgeService) BackfillGrantTimestamps(ctx context.Context, userID int64, grantedAt time.Time) (int, error) {
	grants, err := s.badges.ListGrants(ctx, userID)
	if err != nil {
		return 0, NewInternalError("failed to load user badges").withCause(err)
	}

	stamped := 0
	for _, grant := range grants {
		if grant.GrantedAt != nil {
			continue
		}
		if err := s.badges.BackfillGrantedAt(ctx, userID, grant.BadgeID, grantedAt); err != nil {
			return stamped, NewInternalError("failed to backfill grant timestamp").withCause(err)
		}
		stamped++
	}

	if stamped > 0 {
		s.logger.Info("Grant timestamps backfilled",
			zap.Int64("user_id", userID),
			zap.Int("stamped", stamped),
		)
	}
	return stamped, nil
}

// loadCatalog reads the catalog through the short-TTL cache. Staleness is
// harmless here: a stale catalog can only delay evaluation of a new badge,
// never double-grant one, since GrantIfAbsent resolves races at the ledger.
func (s *badgeService) loadCatalog(ctx context.Context) ([]*models.BadgeDefinition, error) {
	if s.cache != nil {
		var cached []*models.BadgeDefinition
		hit, err := s.cache.Get(ctx, badgeCatalogCacheKey, &cached)
		if err != nil {
			s.logger.Warn("Badge catalog cache read failed", zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	catalog, err := s.badges.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, badgeCatalogCacheKey, catalog, s.catalogTTL); err != nil {
			s.logger.Warn("Badge catalog cache write failed", zap.Error(err))
		}
	}
	return catalog, nil
}

// withCause attaches the underlying error to a ServiceError.
func (e *ServiceError) withCause(cause error) *ServiceError {
	e.Cause = cause
	return e
}
