package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"venture-chat/internal/models"
)

// MessageRepository defines interactions for conversation messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, conversationID, senderID, receiverID int, content string) (models.Message, error)
	ListByConversation(ctx context.Context, conversationID int) ([]models.Message, error)
	ListDetailed(ctx context.Context, conversationID int) ([]models.MessageDetail, error)
	GetMessage(ctx context.Context, messageID int) (models.Message, error)
	AdvanceStatus(ctx context.Context, msg models.Message) (models.Message, bool, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

const messageColumns = `id, conversation_id, sender_id, receiver_id, content, status, sent_at, received_at, read_at`

// CreateMessage stores a message unless a block edge exists between sender
// and receiver in either direction at insert time. A suppressed insert
// returns ErrDeliveryBlocked.
func (r *MessageRepo) CreateMessage(ctx context.Context, conversationID, senderID, receiverID int, content string) (models.Message, error) {
	query := `INSERT INTO messages (conversation_id, sender_id, receiver_id, content)
        SELECT $1::int, $2::int, $3::int, $4::text
        WHERE NOT EXISTS (
            SELECT 1 FROM blocks
            WHERE (blocker_id = $2 AND blocked_id = $3) OR (blocker_id = $3 AND blocked_id = $2)
        )
        RETURNING ` + messageColumns
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, query, conversationID, senderID, receiverID, content).StructScan(&msg)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrDeliveryBlocked
	}
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.Message{}, ErrConversationNotFound
		}
		return models.Message{}, fmt.Errorf("insert message: %w", err)
	}
	return msg, nil
}

// ListByConversation returns every message of the conversation in send order.
func (r *MessageRepo) ListByConversation(ctx context.Context, conversationID int) ([]models.Message, error) {
	msgs := []models.Message{}
	err := r.db.SelectContext(ctx, &msgs, `SELECT `+messageColumns+` FROM messages WHERE conversation_id=$1 ORDER BY sent_at ASC, id ASC`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// ListDetailed is ListByConversation with sender and receiver names.
func (r *MessageRepo) ListDetailed(ctx context.Context, conversationID int) ([]models.MessageDetail, error) {
	query := `SELECT m.id, m.conversation_id, m.sender_id, m.receiver_id, m.content, m.status,
            m.sent_at, m.received_at, m.read_at,
            s.name AS sender_name, rcv.name AS receiver_name
        FROM messages m
        JOIN users s ON s.id = m.sender_id
        JOIN users rcv ON rcv.id = m.receiver_id
        WHERE m.conversation_id=$1
        ORDER BY m.sent_at ASC, m.id ASC`
	msgs := []models.MessageDetail{}
	if err := r.db.SelectContext(ctx, &msgs, query, conversationID); err != nil {
		return nil, fmt.Errorf("list detailed messages: %w", err)
	}
	return msgs, nil
}

// GetMessage retrieves a single message.
func (r *MessageRepo) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, `SELECT `+messageColumns+` FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	if err != nil {
		return models.Message{}, fmt.Errorf("get message: %w", err)
	}
	return msg, nil
}

// AdvanceStatus persists a status change produced by Message.ApplyStatus.
// The rank guard sits in the UPDATE itself so that concurrent writers resolve
// to the highest status, and timestamps already stored are kept. When the row
// is already at or past msg.Status the stored row is returned with
// advanced=false.
func (r *MessageRepo) AdvanceStatus(ctx context.Context, msg models.Message) (models.Message, bool, error) {
	query := `UPDATE messages SET
            status = $2::text,
            received_at = COALESCE(received_at, $3::timestamptz),
            read_at = COALESCE(read_at, $4::timestamptz)
        WHERE id = $1 AND message_status_rank(status) < message_status_rank($2::text)
        RETURNING ` + messageColumns
	var stored models.Message
	err := r.db.QueryRowxContext(ctx, query, msg.ID, string(msg.Status), msg.ReceivedAt, msg.ReadAt).StructScan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		current, getErr := r.GetMessage(ctx, msg.ID)
		return current, false, getErr
	}
	if err != nil {
		return models.Message{}, false, fmt.Errorf("advance message status: %w", err)
	}
	return stored, true, nil
}
