package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"venture-chat/internal/models"
)

// NotificationRepository persists user notifications.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, userID int, content string) (models.Notification, error)
	ListForUser(ctx context.Context, userID int, unreadOnly bool) ([]models.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID int) error
	MarkAllRead(ctx context.Context, userID int) (int64, error)
}

type NotificationRepo struct {
	db *sqlx.DB
}

func NewNotificationRepo(db *sqlx.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) CreateNotification(ctx context.Context, userID int, content string) (models.Notification, error) {
	var n models.Notification
	err := r.db.QueryRowxContext(ctx, `INSERT INTO notifications (user_id, content) VALUES ($1, $2) RETURNING id, user_id, content, read, created_at`, userID, content).
		StructScan(&n)
	if err != nil {
		return models.Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	return n, nil
}

// ListForUser returns newest first.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID int, unreadOnly bool) ([]models.Notification, error) {
	query := `SELECT id, user_id, content, read, created_at FROM notifications WHERE user_id=$1`
	if unreadOnly {
		query += ` AND read = FALSE`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	list := []models.Notification{}
	if err := r.db.SelectContext(ctx, &list, query, userID); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return list, nil
}

// MarkRead flags one notification owned by userID as read.
func (r *NotificationRepo) MarkRead(ctx context.Context, notificationID, userID int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id=$1 AND user_id=$2`, notificationID, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE user_id=$1 AND read = FALSE`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return res.RowsAffected()
}
