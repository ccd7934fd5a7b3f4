package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"venture-chat/internal/models"
	"venture-chat/internal/repositories"
)

// memStore is an in-memory stand-in for the Postgres repositories. It keeps
// the same uniqueness and conditional-insert rules as the SQL schema.
type memStore struct {
	mu            sync.Mutex
	now           time.Time
	users         map[int]models.User
	blocks        []models.Block
	conversations []models.Conversation
	messages      []models.Message
	notifications []models.Notification
}

func newMemStore(users ...models.User) *memStore {
	s := &memStore{
		now:   time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		users: map[int]models.User{},
	}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *memStore) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

func (s *memStore) blocked(a, b int) bool {
	for _, blk := range s.blocks {
		if blk.BlockerID == a && blk.BlockedID == b {
			return true
		}
	}
	return false
}

// UserRepository

func (s *memStore) GetByExternalID(_ context.Context, externalID string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ExternalID == externalID {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrUserNotFound
}

func (s *memStore) GetByID(_ context.Context, userID int) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return models.User{}, repositories.ErrUserNotFound
	}
	return u, nil
}

func (s *memStore) GetProfile(_ context.Context, _ models.User) (models.Profile, error) {
	return nil, nil
}

// BlockRepository

func (s *memStore) CreateBlock(_ context.Context, blockerID, blockedID int) (models.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blocked(blockerID, blockedID) {
		return models.Block{}, repositories.ErrBlockExists
	}
	blk := models.Block{ID: len(s.blocks) + 1, BlockerID: blockerID, BlockedID: blockedID, CreatedAt: s.tick()}
	s.blocks = append(s.blocks, blk)
	return blk, nil
}

func (s *memStore) DeleteBlock(_ context.Context, blockerID, blockedID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, blk := range s.blocks {
		if blk.BlockerID == blockerID && blk.BlockedID == blockedID {
			s.blocks = append(s.blocks[:i], s.blocks[i+1:]...)
			return nil
		}
	}
	return repositories.ErrBlockNotFound
}

func (s *memStore) Exists(_ context.Context, blockerID, blockedID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocked(blockerID, blockedID), nil
}

func (s *memStore) ListByBlocker(_ context.Context, blockerID int) ([]models.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []models.Block{}
	for _, blk := range s.blocks {
		if blk.BlockerID == blockerID {
			list = append(list, blk)
		}
	}
	return list, nil
}

// ConversationRepository

func (s *memStore) FindByPair(_ context.Context, pair models.Pair) (models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conversations {
		if c.Pair() == pair {
			return c, nil
		}
	}
	return models.Conversation{}, repositories.ErrConversationNotFound
}

func (s *memStore) Create(_ context.Context, pair models.Pair) (models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conversations {
		if c.Pair() == pair {
			return models.Conversation{}, repositories.ErrConversationExists
		}
	}
	c := models.Conversation{ID: len(s.conversations) + 1, UserLowID: pair.Low, UserHighID: pair.High, CreatedAt: s.tick()}
	s.conversations = append(s.conversations, c)
	return c, nil
}

func (s *memStore) GetConversation(_ context.Context, conversationID int) (models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conversations {
		if c.ID == conversationID {
			return c, nil
		}
	}
	return models.Conversation{}, repositories.ErrConversationNotFound
}

func (s *memStore) ListForUser(_ context.Context, userID int) ([]models.ChatSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []models.ChatSummary{}
	for _, c := range s.conversations {
		if !c.HasParticipant(userID) {
			continue
		}
		summary := models.ChatSummary{ConversationID: c.ID, CreatedAt: c.CreatedAt}
		for _, id := range c.Participants() {
			summary.Participants = append(summary.Participants, models.Participant{ID: id, Name: s.users[id].Name})
		}
		for i := len(s.messages) - 1; i >= 0; i-- {
			if s.messages[i].ConversationID == c.ID {
				latest := s.messages[i]
				summary.LatestMessage = &latest
				break
			}
		}
		list = append(list, summary)
	}
	return list, nil
}

// MessageRepository

func (s *memStore) CreateMessage(_ context.Context, conversationID, senderID, receiverID int, content string) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blocked(senderID, receiverID) || s.blocked(receiverID, senderID) {
		return models.Message{}, repositories.ErrDeliveryBlocked
	}
	msg := models.Message{
		ID:             len(s.messages) + 1,
		ConversationID: conversationID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        content,
		Status:         models.StatusSent,
		SentAt:         s.tick(),
	}
	s.messages = append(s.messages, msg)
	return msg, nil
}

func (s *memStore) ListByConversation(_ context.Context, conversationID int) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []models.Message{}
	for _, m := range s.messages {
		if m.ConversationID == conversationID {
			list = append(list, m)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].SentAt.Equal(list[j].SentAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].SentAt.Before(list[j].SentAt)
	})
	return list, nil
}

func (s *memStore) ListDetailed(ctx context.Context, conversationID int) ([]models.MessageDetail, error) {
	msgs, err := s.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]models.MessageDetail, 0, len(msgs))
	for _, m := range msgs {
		list = append(list, models.MessageDetail{Message: m, SenderName: s.users[m.SenderID].Name, ReceiverName: s.users[m.ReceiverID].Name})
	}
	return list, nil
}

func (s *memStore) GetMessage(_ context.Context, messageID int) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages {
		if m.ID == messageID {
			return m, nil
		}
	}
	return models.Message{}, repositories.ErrMessageNotFound
}

// AdvanceStatus mirrors the rank-guarded UPDATE: it applies only while the
// stored status ranks below msg.Status and never overwrites a timestamp.
func (s *memStore) AdvanceStatus(_ context.Context, msg models.Message) (models.Message, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		stored := &s.messages[i]
		if stored.ID != msg.ID {
			continue
		}
		if stored.Status.Rank() >= msg.Status.Rank() {
			return *stored, false, nil
		}
		stored.Status = msg.Status
		if stored.ReceivedAt == nil {
			stored.ReceivedAt = msg.ReceivedAt
		}
		if stored.ReadAt == nil {
			stored.ReadAt = msg.ReadAt
		}
		return *stored, true, nil
	}
	return models.Message{}, false, repositories.ErrMessageNotFound
}

// NotificationRepository is implemented on a separate type since its
// ListForUser collides with the conversation one.
type memNotifications struct {
	s *memStore
}

func (n memNotifications) CreateNotification(_ context.Context, userID int, content string) (models.Notification, error) {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	item := models.Notification{ID: len(n.s.notifications) + 1, UserID: userID, Content: content, CreatedAt: n.s.tick()}
	n.s.notifications = append(n.s.notifications, item)
	return item, nil
}

func (n memNotifications) ListForUser(_ context.Context, userID int, unreadOnly bool) ([]models.Notification, error) {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	list := []models.Notification{}
	for i := len(n.s.notifications) - 1; i >= 0; i-- {
		item := n.s.notifications[i]
		if item.UserID == userID && (!unreadOnly || !item.Read) {
			list = append(list, item)
		}
	}
	return list, nil
}

func (n memNotifications) MarkRead(_ context.Context, notificationID, userID int) error {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	for i := range n.s.notifications {
		if n.s.notifications[i].ID == notificationID && n.s.notifications[i].UserID == userID {
			n.s.notifications[i].Read = true
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (n memNotifications) MarkAllRead(_ context.Context, userID int) (int64, error) {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	var count int64
	for i := range n.s.notifications {
		if n.s.notifications[i].UserID == userID && !n.s.notifications[i].Read {
			n.s.notifications[i].Read = true
			count++
		}
	}
	return count, nil
}

// messaging wires the core services over one memStore.
type messaging struct {
	store     *memStore
	blocks    *BlockRegistry
	directory *ConversationDirectory
	messages  *MessageService
	notifier  *Notifier
}

func newMessaging(users ...models.User) *messaging {
	store := newMemStore(users...)
	log := testLogger()
	blocks := NewBlockRegistry(store, store, nil, log)
	directory := NewConversationDirectory(store, nil, log)
	return &messaging{
		store:     store,
		blocks:    blocks,
		directory: directory,
		messages:  NewMessageService(store, store, directory, blocks, nil, log),
		notifier:  NewNotifier(memNotifications{s: store}, nil, log),
	}
}
