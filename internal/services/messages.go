package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"venture-chat/internal/apperrors"
	"venture-chat/internal/logging"
	"venture-chat/internal/models"
	"venture-chat/internal/observability"
	"venture-chat/internal/repositories"
)

// MaxContentLength bounds a message body, in characters.
const MaxContentLength = 4000

// MessageService is the message store: sending, ordered retrieval and
// forward-only status tracking.
type MessageService struct {
	messages  repositories.MessageRepository
	users     repositories.UserRepository
	directory *ConversationDirectory
	blocks    *BlockRegistry
	events    EventPublisher
	log       logging.Logger
	now       func() time.Time
}

func NewMessageService(
	messages repositories.MessageRepository,
	users repositories.UserRepository,
	directory *ConversationDirectory,
	blocks *BlockRegistry,
	events EventPublisher,
	log logging.Logger,
) *MessageService {
	return &MessageService{
		messages:  messages,
		users:     users,
		directory: directory,
		blocks:    blocks,
		events:    events,
		log:       log.With("component", "messages"),
		now:       time.Now,
	}
}

// SendTo delivers content from senderID to receiverID, creating their
// conversation on first contact.
func (s *MessageService) SendTo(ctx context.Context, senderID, receiverID int, content string) (models.Message, error) {
	if receiverID <= 0 {
		return models.Message{}, apperrors.Validation("receiverId is required")
	}
	if senderID == receiverID {
		return models.Message{}, apperrors.Validation("cannot message yourself")
	}
	if err := validateContent(content); err != nil {
		return models.Message{}, err
	}
	if _, err := s.users.GetByID(ctx, receiverID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return models.Message{}, apperrors.NotFound("recipient")
		}
		return models.Message{}, apperrors.Internal(err)
	}
	// Checked before the conversation exists so a blocked first contact
	// leaves nothing behind.
	if err := s.blocks.CheckDelivery(ctx, senderID, receiverID); err != nil {
		s.countBlocked(err)
		return models.Message{}, err
	}

	conv, err := s.directory.GetOrCreate(ctx, senderID, receiverID)
	if err != nil {
		return models.Message{}, err
	}
	return s.Send(ctx, conv.ID, senderID, receiverID, content)
}

// Send appends a message to an existing conversation. Both users must be its
// participants and no block may exist between them in either direction.
func (s *MessageService) Send(ctx context.Context, conversationID, senderID, receiverID int, content string) (models.Message, error) {
	if conversationID <= 0 || senderID <= 0 || receiverID <= 0 {
		return models.Message{}, apperrors.Validation("conversationId, senderId and receiverId are required")
	}
	if err := validateContent(content); err != nil {
		return models.Message{}, err
	}

	conv, err := s.directory.Get(ctx, conversationID)
	if err != nil {
		return models.Message{}, err
	}
	if senderID == receiverID || conv.Pair() != models.NewPair(senderID, receiverID) {
		return models.Message{}, apperrors.NotFound("conversation participant")
	}
	if err := s.blocks.CheckDelivery(ctx, senderID, receiverID); err != nil {
		s.countBlocked(err)
		return models.Message{}, err
	}

	msg, err := s.messages.CreateMessage(ctx, conversationID, senderID, receiverID, content)
	switch {
	case errors.Is(err, repositories.ErrDeliveryBlocked):
		// a block landed between the check and the insert
		if diagErr := s.blocks.CheckDelivery(ctx, senderID, receiverID); diagErr != nil {
			s.countBlocked(diagErr)
			return models.Message{}, diagErr
		}
		return models.Message{}, apperrors.Forbidden("message delivery is blocked")
	case errors.Is(err, repositories.ErrConversationNotFound):
		return models.Message{}, apperrors.NotFound("conversation")
	case err != nil:
		return models.Message{}, apperrors.Internal(err)
	}

	observability.IncMessageSent()
	s.log.Info(ctx, "message stored", "message_id", msg.ID, "conversation_id", conversationID, "sender_id", senderID)
	publish(ctx, s.events, s.log, RoutingMessageSent, "message_sent", msg)
	return msg, nil
}

// ListByConversation returns all messages in ascending send order. Each call
// returns the current full set.
func (s *MessageService) ListByConversation(ctx context.Context, conversationID int) ([]models.Message, error) {
	msgs, err := s.messages.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return msgs, nil
}

// ListDetailed is ListByConversation with participant names.
func (s *MessageService) ListDetailed(ctx context.Context, conversationID int) ([]models.MessageDetail, error) {
	msgs, err := s.messages.ListDetailed(ctx, conversationID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return msgs, nil
}

// MarkStatus moves a message forward to status. Re-applying the current or
// a lower status is a no-op that returns the message unchanged.
func (s *MessageService) MarkStatus(ctx context.Context, messageID int, status models.MessageStatus) (models.Message, bool, error) {
	if err := validateStatusUpdate(messageID, status); err != nil {
		return models.Message{}, false, err
	}
	current, err := s.getMessage(ctx, messageID)
	if err != nil {
		return models.Message{}, false, err
	}
	return s.advance(ctx, current, status)
}

// UpdateStatus is MarkStatus on behalf of actorID, who must be the receiver.
func (s *MessageService) UpdateStatus(ctx context.Context, actorID, messageID int, status models.MessageStatus) (models.Message, bool, error) {
	if err := validateStatusUpdate(messageID, status); err != nil {
		return models.Message{}, false, err
	}
	current, err := s.getMessage(ctx, messageID)
	if err != nil {
		return models.Message{}, false, err
	}
	if current.ReceiverID != actorID {
		return models.Message{}, false, apperrors.Forbidden("only the recipient can update message status")
	}
	return s.advance(ctx, current, status)
}

// MarkConversationRead marks every message addressed to readerID in the
// conversation as READ and returns the ones that changed.
func (s *MessageService) MarkConversationRead(ctx context.Context, conversationID, readerID int) ([]models.Message, error) {
	if _, err := s.directory.GetForParticipant(ctx, conversationID, readerID); err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	updated := []models.Message{}
	for _, msg := range msgs {
		if msg.ReceiverID != readerID {
			continue
		}
		stored, advanced, err := s.advance(ctx, msg, models.StatusRead)
		if err != nil {
			return nil, err
		}
		if advanced {
			updated = append(updated, stored)
		}
	}
	return updated, nil
}

// advance runs the status state machine on current and persists the result.
// The store re-checks the rank so a concurrent higher status is never
// overwritten.
func (s *MessageService) advance(ctx context.Context, current models.Message, status models.MessageStatus) (models.Message, bool, error) {
	next := current
	if !next.ApplyStatus(status, s.now()) {
		return current, false, nil
	}

	stored, advanced, err := s.messages.AdvanceStatus(ctx, next)
	if errors.Is(err, repositories.ErrMessageNotFound) {
		return models.Message{}, false, apperrors.NotFound("message")
	}
	if err != nil {
		return models.Message{}, false, apperrors.Internal(err)
	}
	if advanced {
		observability.IncStatusTransition(string(stored.Status))
		publish(ctx, s.events, s.log, RoutingMessageStatus, "message_status", stored)
	}
	return stored, advanced, nil
}

func (s *MessageService) getMessage(ctx context.Context, messageID int) (models.Message, error) {
	msg, err := s.messages.GetMessage(ctx, messageID)
	if errors.Is(err, repositories.ErrMessageNotFound) {
		return models.Message{}, apperrors.NotFound("message")
	}
	if err != nil {
		return models.Message{}, apperrors.Internal(err)
	}
	return msg, nil
}

func validateStatusUpdate(messageID int, status models.MessageStatus) error {
	if messageID <= 0 {
		return apperrors.Validation("message id is required")
	}
	if !status.Valid() {
		return apperrors.Validation("status must be one of SENT, RECEIVED, READ")
	}
	return nil
}

func (s *MessageService) countBlocked(err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeForbidden {
		return
	}
	direction := "receiver"
	if appErr.Message == ReasonSenderBlockedReceiver {
		direction = "sender"
	}
	observability.IncDeliveryBlocked(direction)
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return apperrors.Validation("content is required")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return apperrors.Validation("content is too long")
	}
	return nil
}
