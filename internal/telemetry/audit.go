// Package telemetry emits audit log records for moderation actions through
// the event publisher.
package telemetry

import (
	"context"
	"time"

	"venture-chat/internal/logging"
	"venture-chat/internal/observability"
)

// Action names an audited operation. It becomes payload.action on the wire.
type Action string

const (
	ActionBlockCreated Action = "block.created"
	ActionBlockRemoved Action = "block.removed"
	ActionAuditTest    Action = "debug.audit_test"
)

const (
	LevelInfo = "INFO"
	LevelWarn = "WARN"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// Record is one audited action. ActorID is the internal user id that
// performed it and TargetID the user it was aimed at; either may be nil.
type Record struct {
	Action    Action
	Level     string
	Text      string
	RequestID string
	ActorID   *int64
	TargetID  *int64
}

type AuditEmitter struct {
	publisher   Publisher
	routingKey  string
	service     string
	environment string
	log         logging.Logger
	now         func() time.Time
}

// AuditEnvelope is the broker message. user_id carries the actor's internal
// id, not the identity provider subject.
type AuditEnvelope struct {
	SchemaVersion int          `json:"schema_version"`
	EventType     string       `json:"event_type"`
	OccurredAt    string       `json:"occurred_at"`
	Service       string       `json:"service"`
	Environment   string       `json:"environment"`
	RequestID     string       `json:"request_id"`
	UserID        *int64       `json:"user_id,omitempty"`
	Payload       AuditPayload `json:"payload"`
}

type AuditPayload struct {
	Action       Action `json:"action"`
	Level        string `json:"level"`
	Text         string `json:"text"`
	TargetUserID *int64 `json:"target_user_id,omitempty"`
}

func NewAuditEmitter(publisher Publisher, routingKey, service, environment string, log logging.Logger) *AuditEmitter {
	return &AuditEmitter{
		publisher:   publisher,
		routingKey:  routingKey,
		service:     service,
		environment: environment,
		log:         log,
		now:         time.Now,
	}
}

// Emit publishes rec. A missing request id is taken from ctx. Publish
// failures are logged and dropped.
func (e *AuditEmitter) Emit(ctx context.Context, rec Record) {
	if e == nil || e.publisher == nil {
		return
	}
	if rec.Level == "" {
		rec.Level = LevelInfo
	}
	if rec.RequestID == "" {
		rec.RequestID = observability.RequestIDFromContext(ctx)
	}

	envelope := AuditEnvelope{
		SchemaVersion: 1,
		EventType:     "audit_log",
		OccurredAt:    e.now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		RequestID:     rec.RequestID,
		UserID:        rec.ActorID,
		Payload: AuditPayload{
			Action:       rec.Action,
			Level:        rec.Level,
			Text:         rec.Text,
			TargetUserID: rec.TargetID,
		},
	}

	if err := e.publisher.Publish(ctx, e.routingKey, envelope); err != nil {
		e.log.Warn(ctx, "audit publish failed", "action", rec.Action, "request_id", rec.RequestID, "error", err)
	}
}
