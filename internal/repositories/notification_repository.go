// file: internal/repositories/notification_repository.go
package repositories

import (
	"context"
	"fmt"

	"faildaily/internal/database"
	"faildaily/internal/models"
)

// notificationRepository implements NotificationRepository.
type notificationRepository struct {
	*BaseRepository
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *database.Manager) NotificationRepository {
	return &notificationRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a notification row.
func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, type, title, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.QueryRowContext(ctx, query,
		notification.UserID, notification.Type, notification.Title, notification.Body,
	).Scan(&notification.ID, &notification.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// GetByUserID returns the user's latest notifications.
func (r *notificationRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `
		SELECT id, user_id, type, title, body, is_read, created_at, read_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Body,
			&n.IsRead, &n.CreatedAt, &n.ReadAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}
	return notifications, nil
}

// MarkAsRead flags a notification as read.
func (r *notificationRepository) MarkAsRead(ctx context.Context, notificationID int64) error {
	query := `
		UPDATE notifications
		SET is_read = true, read_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND is_read = false`

	if _, err := r.ExecContext(ctx, query, notificationID); err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return nil
}
