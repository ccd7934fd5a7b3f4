package ws

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"venture-chat/internal/apperrors"
	"venture-chat/internal/middleware"
	"venture-chat/internal/models"
	"venture-chat/internal/observability"
)

// ParticipantChecker loads a conversation on behalf of one of its
// participants.
type ParticipantChecker interface {
	GetForParticipant(ctx context.Context, conversationID, userID int) (models.Conversation, error)
}

// ConversationWebSocketHandler upgrades participants of a conversation to a
// websocket subscribed to that conversation's events.
type ConversationWebSocketHandler struct {
	hub           *Hub
	verifier      middleware.TokenVerifier
	resolver      middleware.IdentityResolver
	conversations ParticipantChecker
}

func NewConversationWebSocketHandler(hub *Hub, verifier middleware.TokenVerifier, resolver middleware.IdentityResolver, conversations ParticipantChecker) *ConversationWebSocketHandler {
	return &ConversationWebSocketHandler{hub: hub, verifier: verifier, resolver: resolver, conversations: conversations}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle authenticates from the Authorization header or the token query
// parameter, checks participation and registers the connection.
func (h *ConversationWebSocketHandler) Handle(c *gin.Context) {
	conversationID, err := strconv.Atoi(c.Param("conversation_id"))
	if err != nil || conversationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id", "code": apperrors.CodeValidationFailed})
		return
	}

	ctx, span := otel.Tracer("venture-chat/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	span.SetAttributes(attribute.Int("conversation.id", conversationID))
	c.Request = c.Request.WithContext(ctx)

	userID, err := h.authenticate(c)
	if err != nil {
		respond(c, err)
		return
	}
	if _, err := h.conversations.GetForParticipant(ctx, conversationID, userID); err != nil {
		respond(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	requestID := observability.RequestIDFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      uuid.NewString(),
		UserID:      userID,
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   requestID,
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}
	h.hub.AddClient(conversationID, conn, info)
	observability.IncWSActive(wsKind)

	// the read loop outlives the handshake request
	bg := observability.WithRequestID(context.Background(), requestID)
	h.hub.publishWSEvent(bg, conversationID, info, "ws_connect", "")

	go h.readLoop(bg, conversationID, conn, info)
}

func (h *ConversationWebSocketHandler) readLoop(ctx context.Context, conversationID int, conn *websocket.Conn, info ConnInfo) {
	var closeReason string
	defer func() {
		if h.hub.RemoveClient(conversationID, conn) {
			observability.DecWSActive(wsKind)
		}
		h.hub.publishWSEvent(ctx, conversationID, info, "ws_disconnect", closeReason)
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.hub.publishWSEvent(ctx, conversationID, info, "ws_error", closeReason)
			}
			return
		}
	}
}

func (h *ConversationWebSocketHandler) authenticate(c *gin.Context) (int, error) {
	token, ok := middleware.BearerToken(c.GetHeader("Authorization"))
	if !ok {
		token = c.Query("token")
	}
	if token == "" {
		return 0, apperrors.NotAuthenticated("missing token")
	}
	externalID, err := h.verifier.Verify(token)
	if err != nil {
		return 0, apperrors.NotAuthenticated("invalid token")
	}
	user, err := h.resolver.Resolve(c.Request.Context(), externalID)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

func respond(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	c.JSON(appErr.HTTPCode, gin.H{"error": appErr.Message, "code": appErr.Code})
}
