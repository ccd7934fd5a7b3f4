package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"venture-chat/internal/models"
	"venture-chat/internal/telemetry"
)

type MessageServiceMock struct {
	mock.Mock
}

func (m *MessageServiceMock) SendTo(ctx context.Context, senderID, receiverID int, content string) (models.Message, error) {
	args := m.Called(ctx, senderID, receiverID, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageServiceMock) ListByConversation(ctx context.Context, conversationID int) ([]models.Message, error) {
	args := m.Called(ctx, conversationID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageServiceMock) ListDetailed(ctx context.Context, conversationID int) ([]models.MessageDetail, error) {
	args := m.Called(ctx, conversationID)
	var msgs []models.MessageDetail
	if val := args.Get(0); val != nil {
		msgs = val.([]models.MessageDetail)
	}
	return msgs, args.Error(1)
}

func (m *MessageServiceMock) UpdateStatus(ctx context.Context, actorID, messageID int, status models.MessageStatus) (models.Message, bool, error) {
	args := m.Called(ctx, actorID, messageID, status)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Bool(1), args.Error(2)
}

func (m *MessageServiceMock) MarkConversationRead(ctx context.Context, conversationID, readerID int) ([]models.Message, error) {
	args := m.Called(ctx, conversationID, readerID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

type ConversationServiceMock struct {
	mock.Mock
}

func (m *ConversationServiceMock) GetForParticipant(ctx context.Context, conversationID, userID int) (models.Conversation, error) {
	args := m.Called(ctx, conversationID, userID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationServiceMock) ListForUser(ctx context.Context, userID int) ([]models.ChatSummary, error) {
	args := m.Called(ctx, userID)
	var list []models.ChatSummary
	if val := args.Get(0); val != nil {
		list = val.([]models.ChatSummary)
	}
	return list, args.Error(1)
}

type BlockServiceMock struct {
	mock.Mock
}

func (m *BlockServiceMock) Block(ctx context.Context, blockerID, blockedID int) (models.Block, error) {
	args := m.Called(ctx, blockerID, blockedID)
	var block models.Block
	if val := args.Get(0); val != nil {
		block = val.(models.Block)
	}
	return block, args.Error(1)
}

func (m *BlockServiceMock) Unblock(ctx context.Context, blockerID, blockedID int) error {
	args := m.Called(ctx, blockerID, blockedID)
	return args.Error(0)
}

func (m *BlockServiceMock) ListBlocked(ctx context.Context, blockerID int) ([]models.Block, error) {
	args := m.Called(ctx, blockerID)
	var list []models.Block
	if val := args.Get(0); val != nil {
		list = val.([]models.Block)
	}
	return list, args.Error(1)
}

type IdentityServiceMock struct {
	mock.Mock
}

func (m *IdentityServiceMock) Resolve(ctx context.Context, externalID string) (models.User, error) {
	args := m.Called(ctx, externalID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *IdentityServiceMock) Me(ctx context.Context, userID int) (models.User, models.Profile, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	var profile models.Profile
	if val := args.Get(1); val != nil {
		profile = val.(models.Profile)
	}
	return user, profile, args.Error(2)
}

type FriendServiceMock struct {
	mock.Mock
}

func (m *FriendServiceMock) Send(ctx context.Context, senderID, receiverID int) (models.FriendRequest, error) {
	args := m.Called(ctx, senderID, receiverID)
	var req models.FriendRequest
	if val := args.Get(0); val != nil {
		req = val.(models.FriendRequest)
	}
	return req, args.Error(1)
}

func (m *FriendServiceMock) Accept(ctx context.Context, requestID, actorID int) (models.FriendRequest, error) {
	args := m.Called(ctx, requestID, actorID)
	var req models.FriendRequest
	if val := args.Get(0); val != nil {
		req = val.(models.FriendRequest)
	}
	return req, args.Error(1)
}

func (m *FriendServiceMock) Reject(ctx context.Context, requestID, actorID int) (models.FriendRequest, error) {
	args := m.Called(ctx, requestID, actorID)
	var req models.FriendRequest
	if val := args.Get(0); val != nil {
		req = val.(models.FriendRequest)
	}
	return req, args.Error(1)
}

func (m *FriendServiceMock) Delete(ctx context.Context, requestID, actorID int) error {
	args := m.Called(ctx, requestID, actorID)
	return args.Error(0)
}

func (m *FriendServiceMock) List(ctx context.Context, userID int) ([]models.FriendRequest, error) {
	args := m.Called(ctx, userID)
	var list []models.FriendRequest
	if val := args.Get(0); val != nil {
		list = val.([]models.FriendRequest)
	}
	return list, args.Error(1)
}

type NotificationServiceMock struct {
	mock.Mock
}

func (m *NotificationServiceMock) List(ctx context.Context, userID int, unreadOnly bool) ([]models.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly)
	var list []models.Notification
	if val := args.Get(0); val != nil {
		list = val.([]models.Notification)
	}
	return list, args.Error(1)
}

func (m *NotificationServiceMock) MarkRead(ctx context.Context, userID, notificationID int) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

func (m *NotificationServiceMock) MarkAllRead(ctx context.Context, userID int) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type BroadcasterMock struct {
	mock.Mock
}

func (m *BroadcasterMock) BroadcastConversationEvent(conversationID int, event models.ConversationEvent) {
	m.Called(conversationID, event)
}

type TokenVerifierMock struct {
	mock.Mock
}

func (m *TokenVerifierMock) Verify(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

type AuditEmitterMock struct {
	mock.Mock
}

func (m *AuditEmitterMock) Emit(ctx context.Context, rec telemetry.Record) {
	m.Called(ctx, rec)
}
