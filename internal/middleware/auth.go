package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"venture-chat/internal/apperrors"
	"venture-chat/internal/logging"
	"venture-chat/internal/models"
)

// TokenVerifier extracts the external principal from a bearer token.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// IdentityResolver maps an external principal to the internal user.
type IdentityResolver interface {
	Resolve(ctx context.Context, externalID string) (models.User, error)
}

// AuthMiddleware verifies the bearer token, resolves the caller to an
// internal user and stores its id under "userID".
func AuthMiddleware(verifier TokenVerifier, resolver IdentityResolver, log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortWithError(c, apperrors.NotAuthenticated("missing or malformed authorization header"))
			return
		}

		externalID, err := verifier.Verify(token)
		if err != nil {
			log.Warn(c.Request.Context(), "token rejected", "error", err)
			abortWithError(c, apperrors.NotAuthenticated("invalid token"))
			return
		}

		user, err := resolver.Resolve(c.Request.Context(), externalID)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set("userID", user.ID)
		c.Set("externalID", externalID)
		c.Next()
	}
}

// BearerToken parses "Bearer <token>".
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortWithError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	c.AbortWithStatusJSON(appErr.HTTPCode, gin.H{"error": appErr.Message, "code": appErr.Code})
}
