// file: internal/repositories/collection.go
package repositories

import (
	"context"
	"fmt"

	"faildaily/internal/database"
)

// Collection holds all repository instances for dependency injection
type Collection struct {
	Badge        BadgeRepository
	Activity     ActivityRepository
	Notification NotificationRepository

	db *database.Manager
}

// NewCollection creates a new repository collection with all dependencies
func NewCollection(db *database.Manager) (*Collection, error) {
	if db == nil {
		return nil, fmt.Errorf("database manager is required")
	}

	return &Collection{
		Badge:        NewBadgeRepository(db),
		Activity:     NewActivityRepository(db),
		Notification: NewNotificationRepository(db),
		db:           db,
	}, nil
}

// HealthCheck verifies database connectivity on behalf of the collection.
func (c *Collection) HealthCheck(ctx context.Context) error {
	if err := c.db.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}
	return nil
}
