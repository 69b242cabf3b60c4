// file: internal/services/notification_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"faildaily/internal/models"
	"faildaily/internal/repositories"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// notificationService writes unlock notifications. Delivery is best-effort:
// transient storage faults are retried briefly, terminal failures are
// logged and swallowed so the unlock path is never affected.
type notificationService struct {
	notifications repositories.NotificationRepository
	logger        *zap.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(notifications repositories.NotificationRepository, logger *zap.Logger) NotificationService {
	return &notificationService{
		notifications: notifications,
		logger:        logger,
	}
}

// NotifyBadgeUnlocked records a "badge unlocked" notification for the user.
func (s *notificationService) NotifyBadgeUnlocked(ctx context.Context, userID, badgeID int64, badgeName string) {
	notification := &models.Notification{
		UserID: userID,
		Type:   "badge_unlocked",
		Title:  "Nouveau badge débloqué !",
		Body:   fmt.Sprintf("Tu viens de débloquer le badge « %s ».", badgeName),
	}
	if err := notification.Validate(); err != nil {
		s.logger.Warn("Badge unlock notification invalid, dropping",
			zap.Int64("user_id", userID),
			zap.Int64("badge_id", badgeID),
			zap.Error(err),
		)
		return
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(
		backoff.NewExponentialBackOff(backoff.WithInitialInterval(200*time.Millisecond)),
		3,
	), ctx)

	operation := func() error {
		return s.notifications.Create(ctx, notification)
	}

	if err := backoff.Retry(operation, policy); err != nil {
		s.logger.Warn("Badge unlock notification dropped",
			zap.Int64("user_id", userID),
			zap.Int64("badge_id", badgeID),
			zap.String("badge_name", badgeName),
			zap.Error(err),
		)
	}
}
