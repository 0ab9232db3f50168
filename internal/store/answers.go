package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bondbrightly/bond-server/internal/domain"
)

// InsertAnswer stores one daily-question answer and returns the stored row.
func (s *Store) InsertAnswer(ctx context.Context, userID, friendID, question, answer string) (*domain.DailyAnswer, error) {
	a := &domain.DailyAnswer{
		ID:         uuid.New(),
		UserID:     userID,
		FriendID:   friendID,
		Question:   question,
		Answer:     answer,
		AnsweredAt: time.Now(),
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO daily_answers (id, user_id, friend_id, question, answer, answered_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.UserID, a.FriendID, a.Question, a.Answer, a.AnsweredAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// FindAnswer looks up the newest answer authored by authorID, addressed to
// aboutID, for the identical question, at or after since. Returns
// domain.ErrNotFound when no such answer exists.
func (s *Store) FindAnswer(ctx context.Context, authorID, aboutID, question string, since time.Time) (*domain.DailyAnswer, error) {
	var a domain.DailyAnswer
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, friend_id, question, answer, answered_at
		FROM daily_answers
		WHERE user_id = $1 AND friend_id = $2 AND question = $3 AND answered_at >= $4
		ORDER BY answered_at DESC
		LIMIT 1`, authorID, aboutID, question, since).
		Scan(&a.ID, &a.UserID, &a.FriendID, &a.Question, &a.Answer, &a.AnsweredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// AnswersBetween returns answers exchanged between two users, in either
// direction, at or after since, oldest first.
func (s *Store) AnswersBetween(ctx context.Context, userA, userB string, since time.Time) ([]domain.DailyAnswer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, friend_id, question, answer, answered_at
		FROM daily_answers
		WHERE ((user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1))
		  AND answered_at >= $3
		ORDER BY answered_at ASC`, userA, userB, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := make([]domain.DailyAnswer, 0)
	for rows.Next() {
		var a domain.DailyAnswer
		if err := rows.Scan(&a.ID, &a.UserID, &a.FriendID, &a.Question, &a.Answer, &a.AnsweredAt); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
