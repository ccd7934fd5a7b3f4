package models

import "time"

// Notification is a user-visible notice produced by state-changing flows.
type Notification struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"userId"`
	Content   string    `db:"content" json:"content"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
