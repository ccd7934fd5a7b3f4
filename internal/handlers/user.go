package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"venture-chat/internal/models"
)

type IdentityService interface {
	Me(ctx context.Context, userID int) (models.User, models.Profile, error)
}

type UserHandler struct {
	identity IdentityService
}

func NewUserHandler(identity IdentityService) *UserHandler {
	return &UserHandler{identity: identity}
}

type meResponse struct {
	models.User
	Profile models.Profile `json:"profile,omitempty"`
}

// Me returns the resolved caller with its role profile, if any.
func (h *UserHandler) Me(c *gin.Context) {
	userID := c.GetInt("userID")

	user, profile, err := h.identity.Me(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meResponse{User: user, Profile: profile})
}
