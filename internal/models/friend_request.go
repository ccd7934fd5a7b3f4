package models

import "time"

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "PENDING"
	FriendRequestAccepted FriendRequestStatus = "ACCEPTED"
	FriendRequestRejected FriendRequestStatus = "REJECTED"
)

// FriendRequest is a connection request between two users.
type FriendRequest struct {
	ID         int                 `db:"id" json:"id"`
	SenderID   int                 `db:"sender_id" json:"senderId"`
	ReceiverID int                 `db:"receiver_id" json:"receiverId"`
	Status     FriendRequestStatus `db:"status" json:"status"`
	CreatedAt  time.Time           `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time           `db:"updated_at" json:"updatedAt"`
}

// Involves reports whether userID is the sender or receiver.
func (r FriendRequest) Involves(userID int) bool {
	return r.SenderID == userID || r.ReceiverID == userID
}

// Counterpart returns the other party of the request.
func (r FriendRequest) Counterpart(userID int) int {
	if r.SenderID == userID {
		return r.ReceiverID
	}
	return r.SenderID
}
