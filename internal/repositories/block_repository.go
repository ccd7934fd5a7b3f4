package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"venture-chat/internal/models"
)

// BlockRepository stores directed block edges.
type BlockRepository interface {
	CreateBlock(ctx context.Context, blockerID, blockedID int) (models.Block, error)
	DeleteBlock(ctx context.Context, blockerID, blockedID int) error
	Exists(ctx context.Context, blockerID, blockedID int) (bool, error)
	ListByBlocker(ctx context.Context, blockerID int) ([]models.Block, error)
}

type BlockRepo struct {
	db *sqlx.DB
}

func NewBlockRepo(db *sqlx.DB) *BlockRepo {
	return &BlockRepo{db: db}
}

// CreateBlock inserts the edge. A duplicate returns ErrBlockExists.
func (r *BlockRepo) CreateBlock(ctx context.Context, blockerID, blockedID int) (models.Block, error) {
	var block models.Block
	err := r.db.QueryRowxContext(ctx, `INSERT INTO blocks (blocker_id, blocked_id) VALUES ($1, $2) RETURNING id, blocker_id, blocked_id, created_at`, blockerID, blockedID).
		StructScan(&block)
	switch {
	case err == nil:
		return block, nil
	case isUniqueViolation(err):
		return models.Block{}, ErrBlockExists
	case isForeignKeyViolation(err):
		return models.Block{}, ErrUserNotFound
	default:
		return models.Block{}, fmt.Errorf("insert block: %w", err)
	}
}

// DeleteBlock removes the edge or returns ErrBlockNotFound.
func (r *BlockRepo) DeleteBlock(ctx context.Context, blockerID, blockedID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blocks WHERE blocker_id=$1 AND blocked_id=$2`, blockerID, blockedID)
	if err != nil {
		return fmt.Errorf("delete block: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrBlockNotFound
	}
	return nil
}

// Exists reports whether blockerID has blocked blockedID. Direction matters.
func (r *BlockRepo) Exists(ctx context.Context, blockerID, blockedID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM blocks WHERE blocker_id=$1 AND blocked_id=$2)`, blockerID, blockedID)
	return exists, err
}

func (r *BlockRepo) ListByBlocker(ctx context.Context, blockerID int) ([]models.Block, error) {
	blocks := []models.Block{}
	err := r.db.SelectContext(ctx, &blocks, `SELECT id, blocker_id, blocked_id, created_at FROM blocks WHERE blocker_id=$1 ORDER BY created_at DESC`, blockerID)
	return blocks, err
}
