package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"venture-chat/internal/models"
)

// FriendRequestRepository persists connection requests.
type FriendRequestRepository interface {
	CreateRequest(ctx context.Context, senderID, receiverID int) (models.FriendRequest, error)
	GetRequest(ctx context.Context, requestID int) (models.FriendRequest, error)
	FindBetween(ctx context.Context, a, b int) (models.FriendRequest, error)
	Transition(ctx context.Context, requestID int, from, to models.FriendRequestStatus) (models.FriendRequest, error)
	Reopen(ctx context.Context, requestID, senderID, receiverID int) (models.FriendRequest, error)
	DeleteRequest(ctx context.Context, requestID int) error
	ListForUser(ctx context.Context, userID int) ([]models.FriendRequest, error)
}

type FriendRequestRepo struct {
	db *sqlx.DB
}

func NewFriendRequestRepo(db *sqlx.DB) *FriendRequestRepo {
	return &FriendRequestRepo{db: db}
}

const friendRequestColumns = `id, sender_id, receiver_id, status, created_at, updated_at`

func (r *FriendRequestRepo) CreateRequest(ctx context.Context, senderID, receiverID int) (models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.QueryRowxContext(ctx, `INSERT INTO friend_requests (sender_id, receiver_id) VALUES ($1, $2) RETURNING `+friendRequestColumns, senderID, receiverID).
		StructScan(&req)
	switch {
	case err == nil:
		return req, nil
	case isUniqueViolation(err):
		return models.FriendRequest{}, ErrFriendRequestExists
	case isForeignKeyViolation(err):
		return models.FriendRequest{}, ErrUserNotFound
	default:
		return models.FriendRequest{}, fmt.Errorf("insert friend request: %w", err)
	}
}

func (r *FriendRequestRepo) GetRequest(ctx context.Context, requestID int) (models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.GetContext(ctx, &req, `SELECT `+friendRequestColumns+` FROM friend_requests WHERE id=$1`, requestID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FriendRequest{}, ErrFriendRequestNotFound
	}
	if err != nil {
		return models.FriendRequest{}, fmt.Errorf("get friend request: %w", err)
	}
	return req, nil
}

// FindBetween returns any request between a and b, in either direction.
func (r *FriendRequestRepo) FindBetween(ctx context.Context, a, b int) (models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.GetContext(ctx, &req, `SELECT `+friendRequestColumns+` FROM friend_requests
        WHERE (sender_id=$1 AND receiver_id=$2) OR (sender_id=$2 AND receiver_id=$1)
        ORDER BY id LIMIT 1`, a, b)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FriendRequest{}, ErrFriendRequestNotFound
	}
	if err != nil {
		return models.FriendRequest{}, fmt.Errorf("find friend request: %w", err)
	}
	return req, nil
}

// Transition moves a request from one status to another. It returns
// ErrFriendRequestNotFound if the request is missing or not in from.
func (r *FriendRequestRepo) Transition(ctx context.Context, requestID int, from, to models.FriendRequestStatus) (models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.QueryRowxContext(ctx, `UPDATE friend_requests SET status=$3, updated_at=NOW() WHERE id=$1 AND status=$2 RETURNING `+friendRequestColumns, requestID, string(from), string(to)).
		StructScan(&req)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FriendRequest{}, ErrFriendRequestNotFound
	}
	if err != nil {
		return models.FriendRequest{}, fmt.Errorf("update friend request: %w", err)
	}
	return req, nil
}

// Reopen turns a REJECTED request back into a PENDING one from senderID to
// receiverID. The pair keeps a single row, so the unordered-pair index still
// holds. ErrFriendRequestNotFound means the row is gone or no longer REJECTED.
func (r *FriendRequestRepo) Reopen(ctx context.Context, requestID, senderID, receiverID int) (models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.QueryRowxContext(ctx, `UPDATE friend_requests
        SET sender_id=$2, receiver_id=$3, status='PENDING', created_at=NOW(), updated_at=NOW()
        WHERE id=$1 AND status='REJECTED'
        RETURNING `+friendRequestColumns, requestID, senderID, receiverID).StructScan(&req)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FriendRequest{}, ErrFriendRequestNotFound
	}
	if err != nil {
		return models.FriendRequest{}, fmt.Errorf("reopen friend request: %w", err)
	}
	return req, nil
}

func (r *FriendRequestRepo) DeleteRequest(ctx context.Context, requestID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM friend_requests WHERE id=$1`, requestID)
	if err != nil {
		return fmt.Errorf("delete friend request: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrFriendRequestNotFound
	}
	return nil
}

// ListForUser returns incoming and outgoing requests, newest first.
func (r *FriendRequestRepo) ListForUser(ctx context.Context, userID int) ([]models.FriendRequest, error) {
	list := []models.FriendRequest{}
	err := r.db.SelectContext(ctx, &list, `SELECT `+friendRequestColumns+` FROM friend_requests WHERE sender_id=$1 OR receiver_id=$1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list friend requests: %w", err)
	}
	return list, nil
}
