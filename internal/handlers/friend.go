package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"venture-chat/internal/models"
)

type FriendService interface {
	Send(ctx context.Context, senderID, receiverID int) (models.FriendRequest, error)
	Accept(ctx context.Context, requestID, actorID int) (models.FriendRequest, error)
	Reject(ctx context.Context, requestID, actorID int) (models.FriendRequest, error)
	Delete(ctx context.Context, requestID, actorID int) error
	List(ctx context.Context, userID int) ([]models.FriendRequest, error)
}

// FriendHandler serves /friend-requests.
type FriendHandler struct {
	friends FriendService
}

func NewFriendHandler(friends FriendService) *FriendHandler {
	return &FriendHandler{friends: friends}
}

type friendRequestBody struct {
	ReceiverID int `json:"receiverId"`
}

func (h *FriendHandler) Send(c *gin.Context) {
	userID := c.GetInt("userID")

	var req friendRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid body")
		return
	}

	created, err := h.friends.Send(c.Request.Context(), userID, req.ReceiverID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *FriendHandler) List(c *gin.Context) {
	userID := c.GetInt("userID")

	list, err := h.friends.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *FriendHandler) Accept(c *gin.Context) {
	h.respond(c, h.friends.Accept)
}

func (h *FriendHandler) Reject(c *gin.Context) {
	h.respond(c, h.friends.Reject)
}

func (h *FriendHandler) respond(c *gin.Context, action func(context.Context, int, int) (models.FriendRequest, error)) {
	userID := c.GetInt("userID")
	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}

	updated, err := action(c.Request.Context(), requestID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *FriendHandler) Delete(c *gin.Context) {
	userID := c.GetInt("userID")
	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.friends.Delete(c.Request.Context(), requestID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
