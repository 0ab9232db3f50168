package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bondbrightly/bond-server/internal/domain"
)

// AnswerStore is the slice of the persistent store the matcher needs.
type AnswerStore interface {
	InsertAnswer(ctx context.Context, userID, friendID, question, answer string) (*domain.DailyAnswer, error)
	FindAnswer(ctx context.Context, authorID, aboutID, question string, since time.Time) (*domain.DailyAnswer, error)
}

// AnswerMatcher records daily-question answers and detects when both sides
// of a friendship have answered the same question on the same calendar day.
type AnswerMatcher struct {
	answers AnswerStore
	now     func() time.Time
}

// NewAnswerMatcher creates a matcher backed by the given store.
func NewAnswerMatcher(answers AnswerStore) *AnswerMatcher {
	return &AnswerMatcher{
		answers: answers,
		now:     time.Now,
	}
}

// SubmitAndCheck durably records the answer, then looks for a counterpart
// authored by friendID, addressed to userID, for the identical question,
// within the current calendar day in server-local time.
//
// The returned match is nil when the friend has not answered yet. If the
// insert fails nothing else happens and the error is returned. If the insert
// succeeds but the counterpart lookup fails, the answer stays recorded and
// no match is reported; the friend's own submission re-runs the check from
// the other side, so the state heals itself.
func (m *AnswerMatcher) SubmitAndCheck(ctx context.Context, userID, friendID, question, answer string) (*domain.DailyAnswer, *domain.AnswerMatch, error) {
	saved, err := m.answers.InsertAnswer(ctx, userID, friendID, question, answer)
	if err != nil {
		return nil, nil, fmt.Errorf("insert answer: %w", err)
	}

	// One cutoff for the whole call: the day boundary must not shift
	// between the insert and the lookup.
	since := StartOfDay(m.now())

	counterpart, err := m.answers.FindAnswer(ctx, friendID, userID, question, since)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Printf("Answer match lookup failed for %s/%s: %v", userID, friendID, err)
		}
		return saved, nil, nil
	}

	match := &domain.AnswerMatch{
		Question:      question,
		UserAnswer:    saved.Answer,
		PartnerAnswer: counterpart.Answer,
	}
	return saved, match, nil
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
