package domain

import (
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	MessageTypeUser   MessageType = "user"
	MessageTypeSystem MessageType = "system"
)

// Message is an append-only chat entry. Seq breaks created_at ties in
// insertion order.
type Message struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	Seq       int64       `json:"seq" db:"seq"`
	TripID    uuid.UUID   `json:"trip_id" db:"trip_id"`
	Type      MessageType `json:"type" db:"type"`
	MemberID  *uuid.UUID  `json:"member_id,omitempty" db:"member_id"`
	Body      string      `json:"body" db:"body"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// Before reports whether m sorts before other in a trip's message stream.
func (m *Message) Before(other *Message) bool {
	if !m.CreatedAt.Equal(other.CreatedAt) {
		return m.CreatedAt.Before(other.CreatedAt)
	}
	return m.Seq < other.Seq
}

// MessageDay groups a day's messages for display.
type MessageDay struct {
	Date     string     `json:"date"`
	Messages []*Message `json:"messages"`
}
