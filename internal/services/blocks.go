package services

import (
	"context"
	"errors"

	"venture-chat/internal/apperrors"
	"venture-chat/internal/logging"
	"venture-chat/internal/models"
	"venture-chat/internal/repositories"
)

const (
	ReasonSenderBlockedReceiver = "you cannot message this user"
	ReasonReceiverBlockedSender = "this user has blocked you"
)

// BlockRegistry records directed block edges and answers delivery checks.
type BlockRegistry struct {
	blocks repositories.BlockRepository
	users  repositories.UserRepository
	events EventPublisher
	log    logging.Logger
}

func NewBlockRegistry(blocks repositories.BlockRepository, users repositories.UserRepository, events EventPublisher, log logging.Logger) *BlockRegistry {
	return &BlockRegistry{blocks: blocks, users: users, events: events, log: log.With("component", "blocks")}
}

// Block records blockerID -> blockedID. A repeated call fails with
// ConstraintViolation; callers may read that as "already blocked".
func (b *BlockRegistry) Block(ctx context.Context, blockerID, blockedID int) (models.Block, error) {
	if blockedID <= 0 {
		return models.Block{}, apperrors.Validation("blockedId is required")
	}
	if blockerID == blockedID {
		return models.Block{}, apperrors.Validation("cannot block yourself")
	}
	if _, err := b.users.GetByID(ctx, blockedID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return models.Block{}, apperrors.NotFound("user")
		}
		return models.Block{}, apperrors.Internal(err)
	}

	block, err := b.blocks.CreateBlock(ctx, blockerID, blockedID)
	switch {
	case errors.Is(err, repositories.ErrBlockExists):
		return models.Block{}, apperrors.Constraint("user is already blocked", err)
	case errors.Is(err, repositories.ErrUserNotFound):
		return models.Block{}, apperrors.NotFound("user")
	case err != nil:
		return models.Block{}, apperrors.Internal(err)
	}

	publish(ctx, b.events, b.log, RoutingBlockCreated, "block_created", block)
	return block, nil
}

// Unblock removes blockerID -> blockedID or fails with NotFound.
func (b *BlockRegistry) Unblock(ctx context.Context, blockerID, blockedID int) error {
	if blockedID <= 0 {
		return apperrors.Validation("blockedId is required")
	}
	err := b.blocks.DeleteBlock(ctx, blockerID, blockedID)
	if errors.Is(err, repositories.ErrBlockNotFound) {
		return apperrors.NotFound("block")
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	publish(ctx, b.events, b.log, RoutingBlockRemoved, "block_removed", map[string]int{"blockerId": blockerID, "blockedId": blockedID})
	return nil
}

// IsBlocked reports whether a has blocked b. It does not look at b -> a.
func (b *BlockRegistry) IsBlocked(ctx context.Context, a, bID int) (bool, error) {
	blocked, err := b.blocks.Exists(ctx, a, bID)
	if err != nil {
		return false, apperrors.Internal(err)
	}
	return blocked, nil
}

// CheckDelivery checks both directions and returns a Forbidden error whose
// message tells the sender which side holds the block.
func (b *BlockRegistry) CheckDelivery(ctx context.Context, senderID, receiverID int) error {
	return b.checkPair(ctx, senderID, receiverID, ReasonSenderBlockedReceiver, ReasonReceiverBlockedSender)
}

func (b *BlockRegistry) checkPair(ctx context.Context, actorID, targetID int, actorBlocked, targetBlocked string) error {
	blocked, err := b.IsBlocked(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if blocked {
		return apperrors.Forbidden(actorBlocked)
	}
	blocked, err = b.IsBlocked(ctx, targetID, actorID)
	if err != nil {
		return err
	}
	if blocked {
		return apperrors.Forbidden(targetBlocked)
	}
	return nil
}

// ListBlocked returns the users blockerID has blocked.
func (b *BlockRegistry) ListBlocked(ctx context.Context, blockerID int) ([]models.Block, error) {
	blocks, err := b.blocks.ListByBlocker(ctx, blockerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return blocks, nil
}
