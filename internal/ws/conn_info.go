package ws

import "time"

type ConnInfo struct {
	ConnID      string
	UserID      int
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}

func (i ConnInfo) payload(conversationID int, event, reason string) map[string]interface{} {
	duration := int64(0)
	if !i.ConnectedAt.IsZero() {
		duration = time.Since(i.ConnectedAt).Milliseconds()
	}
	return map[string]interface{}{
		"ws": map[string]interface{}{
			"kind":        wsKind,
			"resource_id": conversationID,
			"event":       event,
			"conn_id":     i.ConnID,
			"duration_ms": duration,
			"reason":      reason,
		},
		"identity": map[string]interface{}{
			"user_id": i.UserID,
			"ip":      i.IP,
		},
	}
}
