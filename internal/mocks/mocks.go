package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"venture-chat/internal/models"
	"venture-chat/internal/repositories"
)

type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) FindByPair(ctx context.Context, pair models.Pair) (models.Conversation, error) {
	args := m.Called(ctx, pair)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) Create(ctx context.Context, pair models.Pair) (models.Conversation, error) {
	args := m.Called(ctx, pair)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) GetConversation(ctx context.Context, conversationID int) (models.Conversation, error) {
	args := m.Called(ctx, conversationID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) ListForUser(ctx context.Context, userID int) ([]models.ChatSummary, error) {
	args := m.Called(ctx, userID)
	var list []models.ChatSummary
	if val := args.Get(0); val != nil {
		list = val.([]models.ChatSummary)
	}
	return list, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, conversationID, senderID, receiverID int, content string) (models.Message, error) {
	args := m.Called(ctx, conversationID, senderID, receiverID, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListByConversation(ctx context.Context, conversationID int) ([]models.Message, error) {
	args := m.Called(ctx, conversationID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) ListDetailed(ctx context.Context, conversationID int) ([]models.MessageDetail, error) {
	args := m.Called(ctx, conversationID)
	var msgs []models.MessageDetail
	if val := args.Get(0); val != nil {
		msgs = val.([]models.MessageDetail)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) AdvanceStatus(ctx context.Context, msg models.Message) (models.Message, bool, error) {
	args := m.Called(ctx, msg)
	var stored models.Message
	if val := args.Get(0); val != nil {
		stored = val.(models.Message)
	}
	return stored, args.Bool(1), args.Error(2)
}

type BlockRepositoryMock struct {
	mock.Mock
}

func (m *BlockRepositoryMock) CreateBlock(ctx context.Context, blockerID, blockedID int) (models.Block, error) {
	args := m.Called(ctx, blockerID, blockedID)
	var block models.Block
	if val := args.Get(0); val != nil {
		block = val.(models.Block)
	}
	return block, args.Error(1)
}

func (m *BlockRepositoryMock) DeleteBlock(ctx context.Context, blockerID, blockedID int) error {
	args := m.Called(ctx, blockerID, blockedID)
	return args.Error(0)
}

func (m *BlockRepositoryMock) Exists(ctx context.Context, blockerID, blockedID int) (bool, error) {
	args := m.Called(ctx, blockerID, blockedID)
	return args.Bool(0), args.Error(1)
}

func (m *BlockRepositoryMock) ListByBlocker(ctx context.Context, blockerID int) ([]models.Block, error) {
	args := m.Called(ctx, blockerID)
	var list []models.Block
	if val := args.Get(0); val != nil {
		list = val.([]models.Block)
	}
	return list, args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) GetByExternalID(ctx context.Context, externalID string) (models.User, error) {
	args := m.Called(ctx, externalID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByID(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetProfile(ctx context.Context, user models.User) (models.Profile, error) {
	args := m.Called(ctx, user)
	var profile models.Profile
	if val := args.Get(0); val != nil {
		profile = val.(models.Profile)
	}
	return profile, args.Error(1)
}

type NotificationRepositoryMock struct {
	mock.Mock
}

func (m *NotificationRepositoryMock) CreateNotification(ctx context.Context, userID int, content string) (models.Notification, error) {
	args := m.Called(ctx, userID, content)
	var n models.Notification
	if val := args.Get(0); val != nil {
		n = val.(models.Notification)
	}
	return n, args.Error(1)
}

func (m *NotificationRepositoryMock) ListForUser(ctx context.Context, userID int, unreadOnly bool) ([]models.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly)
	var list []models.Notification
	if val := args.Get(0); val != nil {
		list = val.([]models.Notification)
	}
	return list, args.Error(1)
}

func (m *NotificationRepositoryMock) MarkRead(ctx context.Context, notificationID, userID int) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *NotificationRepositoryMock) MarkAllRead(ctx context.Context, userID int) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type FriendRequestRepositoryMock struct {
	mock.Mock
}

func (m *FriendRequestRepositoryMock) CreateRequest(ctx context.Context, senderID, receiverID int) (models.FriendRequest, error) {
	args := m.Called(ctx, senderID, receiverID)
	var req models.FriendRequest
	if val := args.Get(0); val != nil {
		req = val.(models.FriendRequest)
	}
	return req, args.Error(1)
}

func (m *FriendRequestRepositoryMock) GetRequest(ctx context.Context, requestID int) (models.FriendRequest, error) {
	args := m.Called(ctx, requestID)
	var req models.FriendRequest
	if val := args.Get(0); val != nil {
		req = val.(models.FriendRequest)
	}
	return req, args.Error(1)
}

func (m *FriendRequestRepositoryMock) FindBetween(ctx context.Context, a, b int) (models.FriendRequest, error) {
	args := m.Called(ctx, a, b)
	var req models.FriendRequest
	if val := args.Get(0); val != nil {
		req = val.(models.FriendRequest)
	}
	return req, args.Error(1)
}

func (m *FriendRequestRepositoryMock) Transition(ctx context.Context, requestID int, from, to models.FriendRequestStatus) (models.FriendRequest, error) {
	args := m.Called(ctx, requestID, from, to)
	var req models.FriendRequest
	if val := args.Get(0); val != nil {
		req = val.(models.FriendRequest)
	}
	return req, args.Error(1)
}

func (m *FriendRequestRepositoryMock) Reopen(ctx context.Context, requestID, senderID, receiverID int) (models.FriendRequest, error) {
	args := m.Called(ctx, requestID, senderID, receiverID)
	var req models.FriendRequest
	if val := args.Get(0); val != nil {
		req = val.(models.FriendRequest)
	}
	return req, args.Error(1)
}

func (m *FriendRequestRepositoryMock) DeleteRequest(ctx context.Context, requestID int) error {
	args := m.Called(ctx, requestID)
	return args.Error(0)
}

func (m *FriendRequestRepositoryMock) ListForUser(ctx context.Context, userID int) ([]models.FriendRequest, error) {
	args := m.Called(ctx, userID)
	var list []models.FriendRequest
	if val := args.Get(0); val != nil {
		list = val.([]models.FriendRequest)
	}
	return list, args.Error(1)
}

var _ repositories.ConversationRepository = (*ConversationRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ repositories.BlockRepository = (*BlockRepositoryMock)(nil)
var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.NotificationRepository = (*NotificationRepositoryMock)(nil)
var _ repositories.FriendRequestRepository = (*FriendRequestRepositoryMock)(nil)
