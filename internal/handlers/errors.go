package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"venture-chat/internal/apperrors"
)

// respondError writes the error body {"error", "code"} with the status
// mapped from the error class. Unknown errors become 500.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	c.JSON(appErr.HTTPCode, gin.H{"error": appErr.Message, "code": appErr.Code})
}

func respondValidation(c *gin.Context, message string) {
	respondError(c, apperrors.Validation(message))
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		respondValidation(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
