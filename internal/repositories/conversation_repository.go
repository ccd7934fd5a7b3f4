package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"venture-chat/internal/models"
)

// ConversationRepository abstracts conversation persistence.
type ConversationRepository interface {
	FindByPair(ctx context.Context, pair models.Pair) (models.Conversation, error)
	Create(ctx context.Context, pair models.Pair) (models.Conversation, error)
	GetConversation(ctx context.Context, conversationID int) (models.Conversation, error)
	ListForUser(ctx context.Context, userID int) ([]models.ChatSummary, error)
}

// ConversationRepo is a sqlx implementation of ConversationRepository.
type ConversationRepo struct {
	db *sqlx.DB
}

// NewConversationRepo constructs a ConversationRepo.
func NewConversationRepo(db *sqlx.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

const conversationColumns = `id, user_low_id, user_high_id, created_at`

// FindByPair looks up the conversation whose participants are exactly the pair.
func (r *ConversationRepo) FindByPair(ctx context.Context, pair models.Pair) (models.Conversation, error) {
	var conv models.Conversation
	err := r.db.GetContext(ctx, &conv, `SELECT `+conversationColumns+` FROM conversations WHERE user_low_id=$1 AND user_high_id=$2`, pair.Low, pair.High)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, ErrConversationNotFound
	}
	if err != nil {
		return models.Conversation{}, fmt.Errorf("find conversation: %w", err)
	}
	return conv, nil
}

// Create inserts the conversation and its participant rows atomically.
// It returns ErrConversationExists when a concurrent insert for the same
// pair won.
func (r *ConversationRepo) Create(ctx context.Context, pair models.Pair) (models.Conversation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Conversation{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var conv models.Conversation
	err = tx.QueryRowxContext(ctx, `INSERT INTO conversations (user_low_id, user_high_id) VALUES ($1, $2)
        ON CONFLICT ON CONSTRAINT conversations_pair_key DO NOTHING
        RETURNING `+conversationColumns, pair.Low, pair.High).StructScan(&conv)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, ErrConversationExists
	}
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.Conversation{}, ErrUserNotFound
		}
		return models.Conversation{}, fmt.Errorf("insert conversation: %w", err)
	}

	for _, userID := range conv.Participants() {
		if _, err = tx.ExecContext(ctx, `INSERT INTO conversation_participants (conversation_id, user_id) VALUES ($1, $2)`, conv.ID, userID); err != nil {
			return models.Conversation{}, fmt.Errorf("insert participant: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return models.Conversation{}, err
	}
	return conv, nil
}

// GetConversation fetches a conversation by id.
func (r *ConversationRepo) GetConversation(ctx context.Context, conversationID int) (models.Conversation, error) {
	var conv models.Conversation
	err := r.db.GetContext(ctx, &conv, `SELECT `+conversationColumns+` FROM conversations WHERE id=$1`, conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, ErrConversationNotFound
	}
	if err != nil {
		return models.Conversation{}, fmt.Errorf("get conversation: %w", err)
	}
	return conv, nil
}

type chatRow struct {
	ID            int            `db:"id"`
	CreatedAt     time.Time      `db:"created_at"`
	LowID         int            `db:"low_id"`
	LowName       string         `db:"low_name"`
	HighID        int            `db:"high_id"`
	HighName      string         `db:"high_name"`
	MsgID         sql.NullInt64  `db:"msg_id"`
	MsgSenderID   sql.NullInt64  `db:"msg_sender_id"`
	MsgReceiverID sql.NullInt64  `db:"msg_receiver_id"`
	MsgContent    sql.NullString `db:"msg_content"`
	MsgStatus     sql.NullString `db:"msg_status"`
	MsgSentAt     sql.NullTime   `db:"msg_sent_at"`
	MsgReceivedAt sql.NullTime   `db:"msg_received_at"`
	MsgReadAt     sql.NullTime   `db:"msg_read_at"`
}

// ListForUser returns the user's conversations with their latest message,
// most recently active first. Participants are in stored (low, high) order.
func (r *ConversationRepo) ListForUser(ctx context.Context, userID int) ([]models.ChatSummary, error) {
	query := `SELECT c.id, c.created_at,
            ul.id AS low_id, ul.name AS low_name, uh.id AS high_id, uh.name AS high_name,
            m.id AS msg_id, m.sender_id AS msg_sender_id, m.receiver_id AS msg_receiver_id,
            m.content AS msg_content, m.status AS msg_status, m.sent_at AS msg_sent_at,
            m.received_at AS msg_received_at, m.read_at AS msg_read_at
        FROM conversation_participants cp
        JOIN conversations c ON c.id = cp.conversation_id
        JOIN users ul ON ul.id = c.user_low_id
        JOIN users uh ON uh.id = c.user_high_id
        LEFT JOIN LATERAL (
            SELECT id, sender_id, receiver_id, content, status, sent_at, received_at, read_at
            FROM messages WHERE conversation_id = c.id
            ORDER BY sent_at DESC, id DESC LIMIT 1
        ) m ON TRUE
        WHERE cp.user_id = $1
        ORDER BY COALESCE(m.sent_at, c.created_at) DESC, c.id DESC`
	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var result []models.ChatSummary
	for rows.Next() {
		var row chatRow
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		result = append(result, row.summary())
	}
	return result, rows.Err()
}

func (row chatRow) summary() models.ChatSummary {
	summary := models.ChatSummary{
		ConversationID: row.ID,
		CreatedAt:      row.CreatedAt,
		Participants: []models.Participant{
			{ID: row.LowID, Name: row.LowName},
			{ID: row.HighID, Name: row.HighName},
		},
	}
	if row.MsgID.Valid {
		msg := &models.Message{
			ID:             int(row.MsgID.Int64),
			ConversationID: row.ID,
			SenderID:       int(row.MsgSenderID.Int64),
			ReceiverID:     int(row.MsgReceiverID.Int64),
			Content:        row.MsgContent.String,
			Status:         models.MessageStatus(row.MsgStatus.String),
			SentAt:         row.MsgSentAt.Time,
		}
		if row.MsgReceivedAt.Valid {
			ts := row.MsgReceivedAt.Time
			msg.ReceivedAt = &ts
		}
		if row.MsgReadAt.Valid {
			ts := row.MsgReadAt.Time
			msg.ReadAt = &ts
		}
		summary.LatestMessage = msg
	}
	return summary
}
