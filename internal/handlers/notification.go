package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"venture-chat/internal/models"
)

type NotificationService interface {
	List(ctx context.Context, userID int, unreadOnly bool) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID int) error
	MarkAllRead(ctx context.Context, userID int) (int64, error)
}

// NotificationHandler serves /notifications for polling clients.
type NotificationHandler struct {
	notifications NotificationService
}

func NewNotificationHandler(notifications NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List accepts ?unread=true to skip notifications already read.
func (h *NotificationHandler) List(c *gin.Context) {
	userID := c.GetInt("userID")
	unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unread", "false"))

	list, err := h.notifications.List(c.Request.Context(), userID, unreadOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.GetInt("userID")
	notificationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), userID, notificationID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := c.GetInt("userID")

	count, err := h.notifications.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": count})
}
