package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"venture-chat/internal/models"
)

// MessageService is the message store as seen by the HTTP layer.
type MessageService interface {
	SendTo(ctx context.Context, senderID, receiverID int, content string) (models.Message, error)
	ListByConversation(ctx context.Context, conversationID int) ([]models.Message, error)
	ListDetailed(ctx context.Context, conversationID int) ([]models.MessageDetail, error)
	UpdateStatus(ctx context.Context, actorID, messageID int, status models.MessageStatus) (models.Message, bool, error)
	MarkConversationRead(ctx context.Context, conversationID, readerID int) ([]models.Message, error)
}

// ConversationService is the conversation directory as seen by the HTTP layer.
type ConversationService interface {
	GetForParticipant(ctx context.Context, conversationID, userID int) (models.Conversation, error)
	ListForUser(ctx context.Context, userID int) ([]models.ChatSummary, error)
}

// Broadcaster pushes committed changes to websocket subscribers.
type Broadcaster interface {
	BroadcastConversationEvent(conversationID int, event models.ConversationEvent)
}

// MessageHandler serves the /messages endpoints.
type MessageHandler struct {
	messages      MessageService
	conversations ConversationService
	hub           Broadcaster
}

func NewMessageHandler(messages MessageService, conversations ConversationService, hub Broadcaster) *MessageHandler {
	return &MessageHandler{messages: messages, conversations: conversations, hub: hub}
}

type sendMessageRequest struct {
	ReceiverID int    `json:"receiverId"`
	Content    string `json:"content"`
}

// SendMessage stores a message to receiverId, opening the conversation on
// first contact.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID := c.GetInt("userID")

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid body")
		return
	}

	msg, err := h.messages.SendTo(c.Request.Context(), userID, req.ReceiverID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	h.broadcast(msg.ConversationID, "message", msg)
	c.JSON(http.StatusCreated, msg)
}

// ListMessages returns ?conversationId= messages in send order.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	userID := c.GetInt("userID")
	conversationID, err := strconv.Atoi(c.Query("conversationId"))
	if err != nil || conversationID <= 0 {
		respondValidation(c, "conversationId is required")
		return
	}

	if _, err := h.conversations.GetForParticipant(c.Request.Context(), conversationID, userID); err != nil {
		respondError(c, err)
		return
	}

	msgs, err := h.messages.ListByConversation(c.Request.Context(), conversationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// ListConversationMessages is ListMessages with participant names.
func (h *MessageHandler) ListConversationMessages(c *gin.Context) {
	userID := c.GetInt("userID")
	conversationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if _, err := h.conversations.GetForParticipant(c.Request.Context(), conversationID, userID); err != nil {
		respondError(c, err)
		return
	}

	msgs, err := h.messages.ListDetailed(c.Request.Context(), conversationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// ListChats returns the caller's conversations with their latest message.
func (h *MessageHandler) ListChats(c *gin.Context) {
	userID := c.GetInt("userID")

	chats, err := h.conversations.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chats)
}

type updateStatusRequest struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
}

// UpdateStatus advances a message's delivery status. Lower or equal
// statuses leave the message unchanged and still return 200.
func (h *MessageHandler) UpdateStatus(c *gin.Context) {
	userID := c.GetInt("userID")
	messageID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid body")
		return
	}
	if req.ID != 0 && req.ID != messageID {
		respondValidation(c, "body id does not match path id")
		return
	}
	status, err := models.ParseMessageStatus(req.Status)
	if err != nil {
		respondValidation(c, "status must be one of SENT, RECEIVED, READ")
		return
	}

	msg, advanced, err := h.messages.UpdateStatus(c.Request.Context(), userID, messageID, status)
	if err != nil {
		respondError(c, err)
		return
	}
	if advanced {
		h.broadcast(msg.ConversationID, "status", msg)
	}
	c.JSON(http.StatusOK, msg)
}

// MarkConversationRead marks every incoming message in the conversation READ.
func (h *MessageHandler) MarkConversationRead(c *gin.Context) {
	userID := c.GetInt("userID")
	conversationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	updated, err := h.messages.MarkConversationRead(c.Request.Context(), conversationID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	for _, msg := range updated {
		h.broadcast(conversationID, "status", msg)
	}
	c.JSON(http.StatusOK, gin.H{"updated": len(updated)})
}

func (h *MessageHandler) broadcast(conversationID int, eventType string, msg models.Message) {
	if h.hub == nil {
		return
	}
	h.hub.BroadcastConversationEvent(conversationID, models.ConversationEvent{Type: eventType, Message: &msg})
}
