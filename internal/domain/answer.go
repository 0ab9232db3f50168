package domain

import (
	"time"

	"github.com/google/uuid"
)

// DailyAnswer is one user's answer to the daily question, addressed to one
// specific friend. Re-answering the same question creates a new row.
type DailyAnswer struct {
	ID         uuid.UUID `json:"id"`
	UserID     string    `json:"user_id"`
	FriendID   string    `json:"friend_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	AnsweredAt time.Time `json:"answered_at"`
}

// AnswerMatch pairs a freshly submitted answer with the friend's same-day
// counterpart. It is never persisted; it only drives the both_answered
// notification. UserAnswer is from the submitter's perspective.
type AnswerMatch struct {
	Question      string
	UserAnswer    string
	PartnerAnswer string
}
