// file: internal/services/service_collection.go
package services

import (
	"context"
	"fmt"

	"faildaily/internal/cache"
	"faildaily/internal/config"
	"faildaily/internal/database"
	"faildaily/internal/events"
	"faildaily/internal/repositories"

	"go.uber.org/zap"
)

// ServiceCollection holds all service instances for dependency injection
type ServiceCollection struct {
	Badge        BadgeService
	Notification NotificationService
	Events       events.EventBus

	repositories *repositories.Collection
}

// NewServiceCollection wires repositories, the event bus and the badge
// unlock engine together.
func NewServiceCollection(
	db *database.Manager,
	cfg *config.Config,
	cacheInstance cache.Cache,
	logger *zap.Logger,
) (*ServiceCollection, error) {
	if db == nil {
		return nil, fmt.Errorf("database manager is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	repos, err := repositories.NewCollection(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create repositories: %w", err)
	}

	bus := events.NewInMemoryEventBus(events.DefaultEventBusConfig(), logger)

	notifier := NewNotificationService(repos.Notification, logger)
	evaluator := NewEvaluator(repos.Activity, NewBadgeThresholds(cfg.Badges), logger)
	badgeService := NewBadgeService(
		repos.Badge,
		evaluator,
		notifier,
		bus,
		cacheInstance,
		cfg.Cache.CatalogTTL,
		logger,
	)

	collection := &ServiceCollection{
		Badge:        badgeService,
		Notification: notifier,
		Events:       bus,
		repositories: repos,
	}

	if err := collection.registerUnlockTriggers(); err != nil {
		return nil, fmt.Errorf("failed to register unlock triggers: %w", err)
	}

	return collection, nil
}

// registerUnlockTriggers subscribes the unlock engine to the action events
// that should cause a badge re-check. Handlers run after the triggering
// transaction has committed (the content handlers publish post-commit), so
// the aggregate facts already include the triggering action.
func (c *ServiceCollection) registerUnlockTriggers() error {
	trigger := events.EventHandlerFunc{
		ID: "badge-unlock-check",
		Func: func(ctx context.Context, event events.Event) error {
			userID := event.GetUserID()
			if userID == nil {
				return nil
			}
			_, err := c.Badge.CheckAndUnlock(ctx, *userID)
			return err
		},
	}

	for _, eventType := range []string{
		events.EventFailCreated,
		events.EventCommentCreated,
		events.EventReactionAdded,
	} {
		if err := c.Events.Subscribe(eventType, trigger); err != nil {
			return err
		}
	}
	return nil
}

// HealthCheck verifies the collection's collaborators.
func (c *ServiceCollection) HealthCheck(ctx context.Context) error {
	return c.repositories.HealthCheck(ctx)
}

// Shutdown stops the event bus, draining queued unlock checks.
func (c *ServiceCollection) Shutdown(ctx context.Context) error {
	return c.Events.Stop(ctx)
}
