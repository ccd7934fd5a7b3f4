package repositories

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrConversationNotFound  = errors.New("conversation not found")
	ErrConversationExists    = errors.New("conversation already exists")
	ErrMessageNotFound       = errors.New("message not found")
	ErrDeliveryBlocked       = errors.New("delivery blocked")
	ErrBlockExists           = errors.New("block already exists")
	ErrBlockNotFound         = errors.New("block not found")
	ErrNotificationNotFound  = errors.New("notification not found")
	ErrFriendRequestNotFound = errors.New("friend request not found")
	ErrFriendRequestExists   = errors.New("friend request already exists")
)

const (
	pqUniqueViolation     = pq.ErrorCode("23505")
	pqForeignKeyViolation = pq.ErrorCode("23503")
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation
}
