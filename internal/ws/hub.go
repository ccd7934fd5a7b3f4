// Package ws pushes conversation events to connected participants.
package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"venture-chat/internal/logging"
	"venture-chat/internal/models"
	"venture-chat/internal/observability"
)

const (
	wsKind       = "conversation"
	wsRoutingKey = "ws_events.conversations"
)

// EventPublisher delivers connection lifecycle events to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// Conn is the part of *websocket.Conn the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type client struct {
	conn Conn
	info ConnInfo
	// gorilla allows one concurrent writer per connection
	writeMu sync.Mutex
}

func (c *client) write(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub maintains one room per conversation. Delivery is best effort; the
// message store stays the source of truth.
type Hub struct {
	rooms  map[int]map[Conn]*client
	mu     sync.RWMutex
	events EventPublisher
	log    logging.Logger
}

func NewHub(events EventPublisher, log logging.Logger) *Hub {
	return &Hub{
		rooms:  make(map[int]map[Conn]*client),
		events: events,
		log:    log.With("component", "ws_hub"),
	}
}

// AddClient registers conn in the conversation room.
func (h *Hub) AddClient(conversationID int, conn Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[conversationID]; !ok {
		h.rooms[conversationID] = make(map[Conn]*client)
	}
	h.rooms[conversationID][conn] = &client{conn: conn, info: info}
}

// RemoveClient drops conn from the room and reports whether it was there.
func (h *Hub) RemoveClient(conversationID int, conn Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.rooms[conversationID]
	if !ok {
		return false
	}
	if _, ok := conns[conn]; !ok {
		return false
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.rooms, conversationID)
	}
	return true
}

// RoomSize returns the number of connections in a conversation room.
func (h *Hub) RoomSize(conversationID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[conversationID])
}

// BroadcastConversationEvent sends event to every client in the room.
// Clients that fail to receive it are closed and removed.
func (h *Hub) BroadcastConversationEvent(conversationID int, event models.ConversationEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Error(context.Background(), "encode ws event", "error", err)
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.rooms[conversationID]))
	for _, c := range h.rooms[conversationID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(payload); err != nil {
			h.log.Warn(context.Background(), "websocket write error", "conversation_id", conversationID, "conn_id", c.info.ConnID, "error", err)
			_ = c.conn.Close()
			if h.RemoveClient(conversationID, c.conn) {
				observability.DecWSActive(wsKind)
			}
			h.publishWSEvent(context.Background(), conversationID, c.info, "ws_error", err.Error())
			continue
		}
		observability.IncWSEvent(wsKind, event.Type)
	}
}

func (h *Hub) publishWSEvent(ctx context.Context, conversationID int, info ConnInfo, event, reason string) {
	observability.IncWSEvent(wsKind, event)
	if h.events == nil {
		return
	}
	if observability.RequestIDFromContext(ctx) == "" {
		ctx = observability.WithRequestID(ctx, info.RequestID)
	}
	envelope := observability.EventEnvelope{
		EventType: "ws_events",
		EventName: event,
		Payload:   info.payload(conversationID, event, reason),
	}
	if err := h.events.Publish(ctx, wsRoutingKey, envelope); err != nil {
		observability.IncAMQPPublishError()
		h.log.Warn(ctx, "ws event publish failed", "event", event, "error", err)
	}
}
