package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"venture-chat/internal/apperrors"
	"venture-chat/internal/logging"
	"venture-chat/internal/mocks"
	"venture-chat/internal/models"
)

func setupWSServer(t *testing.T, hub *Hub, verifier *mocks.TokenVerifierMock, resolver *mocks.IdentityServiceMock, conversations *mocks.ConversationServiceMock) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewConversationWebSocketHandler(hub, verifier, resolver, conversations)
	r.GET("/ws/conversations/:conversation_id", handler.Handle)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestConversationWebSocketReceivesBroadcast(t *testing.T) {
	hub := NewHub(nil, logging.Nop())
	verifier := new(mocks.TokenVerifierMock)
	resolver := new(mocks.IdentityServiceMock)
	conversations := new(mocks.ConversationServiceMock)
	srv := setupWSServer(t, hub, verifier, resolver, conversations)

	verifier.On("Verify", "tok").Return("ext-1", nil).Once()
	resolver.On("Resolve", mock.Anything, "ext-1").Return(models.User{ID: 1}, nil).Once()
	conversations.On("GetForParticipant", mock.Anything, 7, 1).Return(models.Conversation{ID: 7, UserLowID: 1, UserHighID: 2}, nil).Once()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/conversations/7?token=tok"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.RoomSize(7) == 1 }, time.Second, 10*time.Millisecond)

	msg := models.Message{ID: 3, ConversationID: 7, Content: "hello"}
	hub.BroadcastConversationEvent(7, models.ConversationEvent{Type: "message", Message: &msg})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var event models.ConversationEvent
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, "message", event.Type)
	assert.Equal(t, "hello", event.Message.Content)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	assert.Eventually(t, func() bool { return hub.RoomSize(7) == 0 }, time.Second, 10*time.Millisecond)
}

func TestConversationWebSocketRejectsNonParticipant(t *testing.T) {
	hub := NewHub(nil, logging.Nop())
	verifier := new(mocks.TokenVerifierMock)
	resolver := new(mocks.IdentityServiceMock)
	conversations := new(mocks.ConversationServiceMock)
	srv := setupWSServer(t, hub, verifier, resolver, conversations)

	verifier.On("Verify", "tok").Return("ext-3", nil).Once()
	resolver.On("Resolve", mock.Anything, "ext-3").Return(models.User{ID: 3}, nil).Once()
	conversations.On("GetForParticipant", mock.Anything, 7, 3).Return(nil, apperrors.Forbidden("not a conversation participant")).Once()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/conversations/7"), http.Header{"Authorization": []string{"Bearer tok"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, hub.RoomSize(7))
}

func TestConversationWebSocketRequiresToken(t *testing.T) {
	hub := NewHub(nil, logging.Nop())
	srv := setupWSServer(t, hub, new(mocks.TokenVerifierMock), new(mocks.IdentityServiceMock), new(mocks.ConversationServiceMock))

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/conversations/7"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestConversationWebSocketInvalidID(t *testing.T) {
	hub := NewHub(nil, logging.Nop())
	srv := setupWSServer(t, hub, new(mocks.TokenVerifierMock), new(mocks.IdentityServiceMock), new(mocks.ConversationServiceMock))

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/conversations/abc"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
