package services

import (
	"context"
	"errors"
	"strings"

	"venture-chat/internal/apperrors"
	"venture-chat/internal/logging"
	"venture-chat/internal/models"
	"venture-chat/internal/observability"
	"venture-chat/internal/repositories"
)

// Notifier persists user notifications. Notify is fire-and-forget: the
// flow that triggered it has already succeeded.
type Notifier struct {
	notifications repositories.NotificationRepository
	events        EventPublisher
	log           logging.Logger
}

func NewNotifier(notifications repositories.NotificationRepository, events EventPublisher, log logging.Logger) *Notifier {
	return &Notifier{notifications: notifications, events: events, log: log.With("component", "notifier")}
}

// Notify records content for userID. Errors are logged and never returned.
func (n *Notifier) Notify(ctx context.Context, userID int, content string) {
	if userID <= 0 || strings.TrimSpace(content) == "" {
		n.log.Warn(ctx, "notification skipped", "user_id", userID)
		return
	}
	notification, err := n.notifications.CreateNotification(ctx, userID, content)
	if err != nil {
		observability.IncNotification("error")
		n.log.Error(ctx, "notification write failed", "user_id", userID, "error", err)
		return
	}
	observability.IncNotification("ok")
	publish(ctx, n.events, n.log, RoutingNotificationCreated, "notification.created", notification)
}

// List returns the user's notifications, newest first.
func (n *Notifier) List(ctx context.Context, userID int, unreadOnly bool) ([]models.Notification, error) {
	list, err := n.notifications.ListForUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return list, nil
}

// MarkRead flags one of the user's notifications as read.
func (n *Notifier) MarkRead(ctx context.Context, userID, notificationID int) error {
	if notificationID <= 0 {
		return apperrors.Validation("notification id is required")
	}
	err := n.notifications.MarkRead(ctx, notificationID, userID)
	if errors.Is(err, repositories.ErrNotificationNotFound) {
		return apperrors.NotFound("notification")
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// MarkAllRead returns how many notifications changed.
func (n *Notifier) MarkAllRead(ctx context.Context, userID int) (int64, error) {
	count, err := n.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return count, nil
}
