package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"venture-chat/internal/middleware"
	"venture-chat/internal/telemetry"
)

// AuditEmitter records audit log entries for moderation actions.
type AuditEmitter interface {
	Emit(ctx context.Context, rec telemetry.Record)
}

func requestIDFromContext(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}

	requestID := c.GetHeader("X-Request-Id")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(middleware.RequestIDKey, requestID)
	return requestID
}

func userIDFromContext(c *gin.Context) *int64 {
	if userID := c.GetInt("userID"); userID != 0 {
		value := int64(userID)
		return &value
	}
	return nil
}

func audit(c *gin.Context, emitter AuditEmitter, action telemetry.Action, text string, targetID int) {
	if emitter == nil {
		return
	}
	rec := telemetry.Record{
		Action:    action,
		Level:     telemetry.LevelInfo,
		Text:      text,
		RequestID: requestIDFromContext(c),
		ActorID:   userIDFromContext(c),
	}
	if targetID != 0 {
		target := int64(targetID)
		rec.TargetID = &target
	}
	emitter.Emit(c.Request.Context(), rec)
}
