// Package services holds the messaging core and the flows around it.
// Services translate repository errors into apperrors and never hold
// cross-request state; invariants are enforced by the store.
package services

import (
	"context"

	"venture-chat/internal/logging"
	"venture-chat/internal/observability"
)

// EventPublisher delivers domain events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

const (
	RoutingMessageSent         = "messaging.message_sent"
	RoutingMessageStatus       = "messaging.message_status"
	RoutingConversationCreated = "messaging.conversation_created"
	RoutingBlockCreated        = "messaging.block_created"
	RoutingBlockRemoved        = "messaging.block_removed"
	RoutingNotificationCreated = "social.notification_created"
	RoutingFriendRequest       = "social.friend_request"
)

// publish sends an event and only logs failures. Domain writes are already
// committed when this runs, so a broker outage must not fail the request.
func publish(ctx context.Context, p EventPublisher, log logging.Logger, routingKey, name string, payload any) {
	if p == nil {
		return
	}
	envelope := observability.EventEnvelope{EventType: routingKey, EventName: name, Payload: payload}
	if err := p.Publish(ctx, routingKey, envelope); err != nil {
		observability.IncAMQPPublishError()
		log.Warn(ctx, "event publish failed", "routing_key", routingKey, "event", name, "error", err)
	}
}
