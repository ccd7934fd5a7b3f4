package models

import "time"

// Block is a directed edge: BlockerID has blocked BlockedID.
type Block struct {
	ID        int       `db:"id" json:"id"`
	BlockerID int       `db:"blocker_id" json:"blockerId"`
	BlockedID int       `db:"blocked_id" json:"blockedId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
