package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bondbrightly/bond-server/internal/domain"
)

// InsertMessage stores a chat message and returns the stored row. The ID and
// timestamp are assigned here, never taken from the client.
func (s *Store) InsertMessage(ctx context.Context, senderID, receiverID, content string) (*domain.ChatMessage, error) {
	m := &domain.ChatMessage{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  time.Now(),
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO messages (id, sender_id, receiver_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.SenderID, m.ReceiverID, m.Content, m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// MessagesBetween returns the full conversation between two users in
// chronological order, regardless of who sent each message.
func (s *Store) MessagesBetween(ctx context.Context, userA, userB string) ([]domain.ChatMessage, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, sender_id, receiver_id, content, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC`, userA, userB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]domain.ChatMessage, 0)
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
