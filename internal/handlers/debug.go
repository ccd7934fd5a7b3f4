package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"venture-chat/internal/telemetry"
)

// RegisterDebugRoutes wires debug-only endpoints.
func RegisterDebugRoutes(router gin.IRoutes, emitter AuditEmitter, enabled bool) {
	if !enabled {
		return
	}

	router.GET("/debug/audit-test", func(c *gin.Context) {
		if emitter == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit emitter not configured"})
			return
		}
		audit(c, emitter, telemetry.ActionAuditTest, "audit test", 0)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
