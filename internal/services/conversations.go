package services

import (
	"context"
	"errors"

	"venture-chat/internal/apperrors"
	"venture-chat/internal/logging"
	"venture-chat/internal/models"
	"venture-chat/internal/observability"
	"venture-chat/internal/repositories"
)

// ConversationDirectory owns the one-conversation-per-pair invariant.
type ConversationDirectory struct {
	conversations repositories.ConversationRepository
	events        EventPublisher
	log           logging.Logger
}

func NewConversationDirectory(conversations repositories.ConversationRepository, events EventPublisher, log logging.Logger) *ConversationDirectory {
	return &ConversationDirectory{conversations: conversations, events: events, log: log.With("component", "conversations")}
}

// GetOrCreate returns the conversation whose participants are exactly
// {a, b}, creating it on first use. Argument order does not matter. When a
// concurrent request creates the same pair first, the winner is returned.
func (d *ConversationDirectory) GetOrCreate(ctx context.Context, a, b int) (models.Conversation, error) {
	if a <= 0 || b <= 0 {
		return models.Conversation{}, apperrors.Validation("both participants are required")
	}
	if a == b {
		return models.Conversation{}, apperrors.Validation("cannot start a conversation with yourself")
	}
	pair := models.NewPair(a, b)

	conv, err := d.conversations.FindByPair(ctx, pair)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, repositories.ErrConversationNotFound) {
		return models.Conversation{}, apperrors.Internal(err)
	}

	conv, err = d.conversations.Create(ctx, pair)
	switch {
	case err == nil:
		observability.IncConversationCreated()
		publish(ctx, d.events, d.log, RoutingConversationCreated, "conversation_created", conv)
		return conv, nil
	case errors.Is(err, repositories.ErrConversationExists):
		observability.IncConversationRaceRecovered()
		d.log.Info(ctx, "conversation created concurrently, using winner", "user_low_id", pair.Low, "user_high_id", pair.High)
		conv, err = d.conversations.FindByPair(ctx, pair)
		if err != nil {
			return models.Conversation{}, apperrors.Internal(err)
		}
		return conv, nil
	case errors.Is(err, repositories.ErrUserNotFound):
		return models.Conversation{}, apperrors.NotFound("user")
	default:
		return models.Conversation{}, apperrors.Internal(err)
	}
}

// Get fetches a conversation by id.
func (d *ConversationDirectory) Get(ctx context.Context, conversationID int) (models.Conversation, error) {
	if conversationID <= 0 {
		return models.Conversation{}, apperrors.Validation("conversationId is required")
	}
	conv, err := d.conversations.GetConversation(ctx, conversationID)
	if errors.Is(err, repositories.ErrConversationNotFound) {
		return models.Conversation{}, apperrors.NotFound("conversation")
	}
	if err != nil {
		return models.Conversation{}, apperrors.Internal(err)
	}
	return conv, nil
}

// GetForParticipant is Get restricted to the conversation's participants.
func (d *ConversationDirectory) GetForParticipant(ctx context.Context, conversationID, userID int) (models.Conversation, error) {
	conv, err := d.Get(ctx, conversationID)
	if err != nil {
		return models.Conversation{}, err
	}
	if !conv.HasParticipant(userID) {
		return models.Conversation{}, apperrors.Forbidden("not a conversation participant")
	}
	return conv, nil
}

// ListForUser returns the user's chats with the latest message. In every
// summary the current user is moved out of the first position.
func (d *ConversationDirectory) ListForUser(ctx context.Context, userID int) ([]models.ChatSummary, error) {
	chats, err := d.conversations.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if chats == nil {
		chats = []models.ChatSummary{}
	}
	for i := range chats {
		chats[i].Participants = otherFirst(chats[i].Participants, userID)
	}
	return chats, nil
}

func otherFirst(participants []models.Participant, userID int) []models.Participant {
	ordered := make([]models.Participant, 0, len(participants))
	var self []models.Participant
	for _, p := range participants {
		if p.ID == userID {
			self = append(self, p)
			continue
		}
		ordered = append(ordered, p)
	}
	return append(ordered, self...)
}
