package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is a stored chat message between exactly two users. The ID and
// CreatedAt are authoritative: they are assigned at insert time, never taken
// from the client.
type ChatMessage struct {
	ID         uuid.UUID `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
