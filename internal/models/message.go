package models

import (
	"fmt"
	"strings"
	"time"
)

// MessageStatus is the delivery state of a message. It only moves forward:
// SENT -> RECEIVED -> READ.
type MessageStatus string

const (
	StatusSent     MessageStatus = "SENT"
	StatusReceived MessageStatus = "RECEIVED"
	StatusRead     MessageStatus = "READ"
)

// ParseMessageStatus accepts a status name in any letter case.
func ParseMessageStatus(raw string) (MessageStatus, error) {
	status := MessageStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown message status %q", raw)
	}
	return status, nil
}

// Valid reports whether s is a known status.
func (s MessageStatus) Valid() bool {
	return s.Rank() >= 0
}

// Rank orders statuses; higher wins. Unknown statuses rank -1.
func (s MessageStatus) Rank() int {
	switch s {
	case StatusSent:
		return 0
	case StatusReceived:
		return 1
	case StatusRead:
		return 2
	default:
		return -1
	}
}

// Advances reports whether moving from s to next is a forward transition.
func (s MessageStatus) Advances(next MessageStatus) bool {
	return next.Valid() && next.Rank() > s.Rank()
}

// Message is a single entry in a conversation.
type Message struct {
	ID             int           `db:"id" json:"id"`
	ConversationID int           `db:"conversation_id" json:"conversationId"`
	SenderID       int           `db:"sender_id" json:"senderId"`
	ReceiverID     int           `db:"receiver_id" json:"receiverId"`
	Content        string        `db:"content" json:"content"`
	Status         MessageStatus `db:"status" json:"status"`
	SentAt         time.Time     `db:"sent_at" json:"sentAt"`
	ReceivedAt     *time.Time    `db:"received_at" json:"receivedAt,omitempty"`
	ReadAt         *time.Time    `db:"read_at" json:"readAt,omitempty"`
}

// ApplyStatus moves the message forward to next, stamping the timestamps of
// every state entered for the first time. It returns false and leaves the
// message untouched when next does not advance the current status.
func (m *Message) ApplyStatus(next MessageStatus, now time.Time) bool {
	if !m.Status.Advances(next) {
		return false
	}
	if next.Rank() >= StatusReceived.Rank() && m.ReceivedAt == nil {
		ts := now
		m.ReceivedAt = &ts
	}
	if next == StatusRead && m.ReadAt == nil {
		ts := now
		m.ReadAt = &ts
	}
	m.Status = next
	return true
}

// MessageDetail is a message with participant display names.
type MessageDetail struct {
	Message
	SenderName   string `db:"sender_name" json:"senderName"`
	ReceiverName string `db:"receiver_name" json:"receiverName"`
}

// ConversationEvent is broadcast to websocket subscribers of a conversation.
type ConversationEvent struct {
	Type    string   `json:"type"`
	Message *Message `json:"message,omitempty"`
}
