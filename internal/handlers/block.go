package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"venture-chat/internal/models"
	"venture-chat/internal/telemetry"
)

type BlockService interface {
	Block(ctx context.Context, blockerID, blockedID int) (models.Block, error)
	Unblock(ctx context.Context, blockerID, blockedID int) error
	ListBlocked(ctx context.Context, blockerID int) ([]models.Block, error)
}

// BlockHandler serves /block.
type BlockHandler struct {
	blocks BlockService
	audit  AuditEmitter
}

func NewBlockHandler(blocks BlockService, audit AuditEmitter) *BlockHandler {
	return &BlockHandler{blocks: blocks, audit: audit}
}

type blockRequest struct {
	BlockedID int `json:"blockedId"`
}

func (h *BlockHandler) Block(c *gin.Context) {
	userID := c.GetInt("userID")

	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid body")
		return
	}

	block, err := h.blocks.Block(c.Request.Context(), userID, req.BlockedID)
	if err != nil {
		respondError(c, err)
		return
	}

	audit(c, h.audit, telemetry.ActionBlockCreated, fmt.Sprintf("user %d blocked user %d", userID, req.BlockedID), req.BlockedID)
	c.JSON(http.StatusCreated, block)
}

func (h *BlockHandler) Unblock(c *gin.Context) {
	userID := c.GetInt("userID")

	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid body")
		return
	}

	if err := h.blocks.Unblock(c.Request.Context(), userID, req.BlockedID); err != nil {
		respondError(c, err)
		return
	}

	audit(c, h.audit, telemetry.ActionBlockRemoved, fmt.Sprintf("user %d unblocked user %d", userID, req.BlockedID), req.BlockedID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *BlockHandler) ListBlocked(c *gin.Context) {
	userID := c.GetInt("userID")

	blocks, err := h.blocks.ListBlocked(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blocks)
}
