package models

import "time"

// Conversation is the unique thread between exactly two users. The pair is
// stored normalized so that UserLowID < UserHighID.
type Conversation struct {
	ID         int       `db:"id" json:"id"`
	UserLowID  int       `db:"user_low_id" json:"-"`
	UserHighID int       `db:"user_high_id" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Pair is an unordered pair of user ids in normalized order.
type Pair struct {
	Low  int
	High int
}

// NewPair normalizes (a, b) so that argument order does not matter.
func NewPair(a, b int) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{Low: a, High: b}
}

// Pair returns the conversation's participant pair.
func (c Conversation) Pair() Pair {
	return Pair{Low: c.UserLowID, High: c.UserHighID}
}

// Participants lists both participant ids.
func (c Conversation) Participants() []int {
	return []int{c.UserLowID, c.UserHighID}
}

// HasParticipant reports whether userID is one of the two participants.
func (c Conversation) HasParticipant(userID int) bool {
	return userID != 0 && (c.UserLowID == userID || c.UserHighID == userID)
}

// Participant is a display view of a conversation member.
type Participant struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// ChatSummary is one row of a user's chat list.
type ChatSummary struct {
	ConversationID int           `json:"conversationId"`
	Participants   []Participant `json:"participants"`
	LatestMessage  *Message      `json:"latestMessage,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
}
