package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bondbrightly/bond-server/internal/domain"
)

type fakeAnswerStore struct {
	answers   []*domain.DailyAnswer
	insertErr error
	findErr   error

	lastFindAuthor string
	lastFindAbout  string
	lastFindSince  time.Time
}

func (f *fakeAnswerStore) InsertAnswer(ctx context.Context, userID, friendID, question, answer string) (*domain.DailyAnswer, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	a := &domain.DailyAnswer{
		ID:         uuid.New(),
		UserID:     userID,
		FriendID:   friendID,
		Question:   question,
		Answer:     answer,
		AnsweredAt: time.Now(),
	}
	f.answers = append(f.answers, a)
	return a, nil
}

func (f *fakeAnswerStore) FindAnswer(ctx context.Context, authorID, aboutID, question string, since time.Time) (*domain.DailyAnswer, error) {
	f.lastFindAuthor = authorID
	f.lastFindAbout = aboutID
	f.lastFindSince = since
	if f.findErr != nil {
		return nil, f.findErr
	}
	// Newest qualifying answer wins, same as the SQL ordering
	var best *domain.DailyAnswer
	for _, a := range f.answers {
		if a.UserID != authorID || a.FriendID != aboutID || a.Question != question {
			continue
		}
		if a.AnsweredAt.Before(since) {
			continue
		}
		if best == nil || a.AnsweredAt.After(best.AnsweredAt) {
			best = a
		}
	}
	if best == nil {
		return nil, domain.ErrNotFound
	}
	return best, nil
}

const question = "What made you smile today?"

func TestSubmitAndCheck_NoCounterpart(t *testing.T) {
	store := &fakeAnswerStore{}
	m := NewAnswerMatcher(store)

	saved, match, err := m.SubmitAndCheck(context.Background(), "alice", "bob", question, "coffee")
	if err != nil {
		t.Fatalf("SubmitAndCheck: %v", err)
	}
	if saved == nil || saved.Answer != "coffee" {
		t.Fatalf("Expected saved answer, got %+v", saved)
	}
	if match != nil {
		t.Errorf("Expected no match, got %+v", match)
	}

	// Lookup must run from the friend's perspective
	if store.lastFindAuthor != "bob" || store.lastFindAbout != "alice" {
		t.Errorf("Lookup direction wrong: author=%s about=%s", store.lastFindAuthor, store.lastFindAbout)
	}
}

func TestSubmitAndCheck_BothAnswered(t *testing.T) {
	store := &fakeAnswerStore{}
	m := NewAnswerMatcher(store)

	if _, _, err := m.SubmitAndCheck(context.Background(), "bob", "alice", question, "the rain stopped"); err != nil {
		t.Fatalf("bob's submit: %v", err)
	}

	saved, match, err := m.SubmitAndCheck(context.Background(), "alice", "bob", question, "coffee")
	if err != nil {
		t.Fatalf("alice's submit: %v", err)
	}
	if match == nil {
		t.Fatal("Expected a match once both sides answered")
	}
	if match.Question != question {
		t.Errorf("Expected question %q, got %q", question, match.Question)
	}
	if match.UserAnswer != "coffee" || match.PartnerAnswer != "the rain stopped" {
		t.Errorf("Match not from submitter's perspective: %+v", match)
	}
	if saved.UserID != "alice" || saved.FriendID != "bob" {
		t.Errorf("Unexpected saved answer %+v", saved)
	}
}

func TestSubmitAndCheck_DifferentQuestionNoMatch(t *testing.T) {
	store := &fakeAnswerStore{}
	m := NewAnswerMatcher(store)

	if _, _, err := m.SubmitAndCheck(context.Background(), "bob", "alice", "Favorite season?", "autumn"); err != nil {
		t.Fatalf("bob's submit: %v", err)
	}

	_, match, err := m.SubmitAndCheck(context.Background(), "alice", "bob", question, "coffee")
	if err != nil {
		t.Fatalf("alice's submit: %v", err)
	}
	if match != nil {
		t.Errorf("Answers to different questions must not match, got %+v", match)
	}
}

func TestSubmitAndCheck_YesterdayDoesNotCount(t *testing.T) {
	store := &fakeAnswerStore{}
	m := NewAnswerMatcher(store)

	// bob answered late last night
	store.answers = append(store.answers, &domain.DailyAnswer{
		ID:         uuid.New(),
		UserID:     "bob",
		FriendID:   "alice",
		Question:   question,
		Answer:     "stale",
		AnsweredAt: StartOfDay(time.Now()).Add(-time.Minute),
	})

	_, match, err := m.SubmitAndCheck(context.Background(), "alice", "bob", question, "coffee")
	if err != nil {
		t.Fatalf("SubmitAndCheck: %v", err)
	}
	if match != nil {
		t.Errorf("Yesterday's answer must not match, got %+v", match)
	}
	if got, want := store.lastFindSince, StartOfDay(time.Now()); !got.Equal(want) {
		t.Errorf("Expected lookup cutoff %v, got %v", want, got)
	}
}

func TestSubmitAndCheck_NewestCounterpartWins(t *testing.T) {
	store := &fakeAnswerStore{}
	m := NewAnswerMatcher(store)

	now := time.Now()
	for i, answer := range []string{"first try", "final answer"} {
		store.answers = append(store.answers, &domain.DailyAnswer{
			ID:         uuid.New(),
			UserID:     "bob",
			FriendID:   "alice",
			Question:   question,
			Answer:     answer,
			AnsweredAt: now.Add(time.Duration(i) * time.Second),
		})
	}

	_, match, err := m.SubmitAndCheck(context.Background(), "alice", "bob", question, "coffee")
	if err != nil {
		t.Fatalf("SubmitAndCheck: %v", err)
	}
	if match == nil || match.PartnerAnswer != "final answer" {
		t.Errorf("Expected newest counterpart, got %+v", match)
	}
}

func TestSubmitAndCheck_InsertFailure(t *testing.T) {
	store := &fakeAnswerStore{insertErr: errors.New("connection refused")}
	m := NewAnswerMatcher(store)

	saved, match, err := m.SubmitAndCheck(context.Background(), "alice", "bob", question, "coffee")
	if err == nil {
		t.Fatal("Expected error when insert fails")
	}
	if saved != nil || match != nil {
		t.Errorf("Expected nothing on insert failure, got saved=%+v match=%+v", saved, match)
	}
	if store.lastFindAuthor != "" {
		t.Error("Lookup must not run when the insert failed")
	}
}

func TestSubmitAndCheck_LookupFailureStillSaves(t *testing.T) {
	store := &fakeAnswerStore{findErr: errors.New("connection reset")}
	m := NewAnswerMatcher(store)

	saved, match, err := m.SubmitAndCheck(context.Background(), "alice", "bob", question, "coffee")
	if err != nil {
		t.Fatalf("Lookup failure must not surface: %v", err)
	}
	if saved == nil {
		t.Fatal("Answer must stay recorded despite lookup failure")
	}
	if match != nil {
		t.Errorf("Expected no match on lookup failure, got %+v", match)
	}
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	in := time.Date(2025, time.March, 14, 23, 59, 59, 123, loc)

	got := StartOfDay(in)
	want := time.Date(2025, time.March, 14, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("StartOfDay(%v) = %v, want %v", in, got, want)
	}
	if got.Location() != loc {
		t.Errorf("StartOfDay must keep the location, got %v", got.Location())
	}
}
