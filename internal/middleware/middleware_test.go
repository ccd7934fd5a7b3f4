package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"venture-chat/internal/apperrors"
	"venture-chat/internal/logging"
	"venture-chat/internal/mocks"
	"venture-chat/internal/models"
	"venture-chat/internal/observability"
)

func setupAuthRouter(verifier TokenVerifier, resolver IdentityResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(verifier, resolver, logging.Nop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.GetInt("userID")})
	})
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestAuthMiddlewareSuccess(t *testing.T) {
	verifier := new(mocks.TokenVerifierMock)
	resolver := new(mocks.IdentityServiceMock)
	router := setupAuthRouter(verifier, resolver)

	verifier.On("Verify", "good").Return("ext-1", nil).Once()
	resolver.On("Resolve", mock.Anything, "ext-1").Return(models.User{ID: 42}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(42), decodeBody(t, rec)["userID"])
	verifier.AssertExpectations(t)
	resolver.AssertExpectations(t)
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	verifier := new(mocks.TokenVerifierMock)
	resolver := new(mocks.IdentityServiceMock)
	router := setupAuthRouter(verifier, resolver)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "NOT_AUTHENTICATED", decodeBody(t, rec)["code"])
	verifier.AssertNotCalled(t, "Verify", mock.Anything)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	verifier := new(mocks.TokenVerifierMock)
	resolver := new(mocks.IdentityServiceMock)
	router := setupAuthRouter(verifier, resolver)

	verifier.On("Verify", "bad").Return("", errors.New("signature is invalid")).Once()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestAuthMiddlewareUnknownUser(t *testing.T) {
	verifier := new(mocks.TokenVerifierMock)
	resolver := new(mocks.IdentityServiceMock)
	router := setupAuthRouter(verifier, resolver)

	verifier.On("Verify", "good").Return("ext-ghost", nil).Once()
	resolver.On("Resolve", mock.Anything, "ext-ghost").Return(nil, apperrors.UserNotFound("no user is provisioned for this identity")).Once()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "USER_NOT_FOUND", decodeBody(t, rec)["code"])
}

func TestBearerToken(t *testing.T) {
	cases := map[string]struct {
		header string
		token  string
		ok     bool
	}{
		"valid":        {header: "Bearer abc", token: "abc", ok: true},
		"lower scheme": {header: "bearer abc", token: "abc", ok: true},
		"empty":        {header: "", ok: false},
		"basic":        {header: "Basic abc", ok: false},
		"no token":     {header: "Bearer ", ok: false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			token, ok := BearerToken(tc.header)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.token, token)
		})
	}
}

func TestRequestIDPropagatesHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	var fromCtx string
	r.GET("/", func(c *gin.Context) {
		fromCtx = observability.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", fromCtx)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-Id"))
}

func TestRequestIDGeneratesWhenMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, rec.Header().Get("X-Request-Id"), 36)
}
