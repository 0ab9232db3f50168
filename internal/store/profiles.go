package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bondbrightly/bond-server/internal/domain"
)

// UpsertProfile inserts or updates a profile by its external ID and returns
// the stored row.
func (s *Store) UpsertProfile(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	interests, err := json.Marshal(emptyIfNilStrings(p.Interests))
	if err != nil {
		return nil, err
	}
	hobbies, err := json.Marshal(emptyIfNilStrings(p.Hobbies))
	if err != nil {
		return nil, err
	}
	answers, err := json.Marshal(emptyIfNilAnswers(p.PersonalAnswers))
	if err != nil {
		return nil, err
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO profiles (id, username, email, age, birthday, bio, profile_picture,
			interests, hobbies, personal_answers, question_time, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			age = EXCLUDED.age,
			birthday = EXCLUDED.birthday,
			bio = EXCLUDED.bio,
			profile_picture = EXCLUDED.profile_picture,
			interests = EXCLUDED.interests,
			hobbies = EXCLUDED.hobbies,
			personal_answers = EXCLUDED.personal_answers,
			question_time = EXCLUDED.question_time,
			updated_at = EXCLUDED.updated_at
		RETURNING id, username, email, age, birthday, bio, profile_picture,
			interests, hobbies, personal_answers, question_time, updated_at`,
		p.ID, p.Username, p.Email, p.Age, p.Birthday, p.Bio, p.ProfilePicture,
		interests, hobbies, answers, p.QuestionTime, time.Now(),
	)

	return scanProfile(row)
}

// GetProfile retrieves a profile by ID. Returns domain.ErrNotFound if the
// user has not set up a profile yet.
func (s *Store) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, username, email, age, birthday, bio, profile_picture,
			interests, hobbies, personal_answers, question_time, updated_at
		FROM profiles WHERE id = $1`, id)

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// SearchProfiles finds up to 10 profiles whose username contains q,
// excluding the requesting user. Only public fields are populated.
func (s *Store) SearchProfiles(ctx context.Context, q, excludeID string) ([]domain.Profile, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, username, bio, profile_picture
		FROM profiles
		WHERE username ILIKE '%' || $1 || '%' AND id <> $2
		LIMIT 10`, q, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.Profile, 0, 10)
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.ID, &p.Username, &p.Bio, &p.ProfilePicture); err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var (
		p         domain.Profile
		interests []byte
		hobbies   []byte
		answers   []byte
	)
	err := row.Scan(&p.ID, &p.Username, &p.Email, &p.Age, &p.Birthday, &p.Bio,
		&p.ProfilePicture, &interests, &hobbies, &answers, &p.QuestionTime, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(interests, &p.Interests); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(hobbies, &p.Hobbies); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(answers, &p.PersonalAnswers); err != nil {
		return nil, err
	}
	return &p, nil
}

func emptyIfNilStrings(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

func emptyIfNilAnswers(as []domain.PersonalAnswer) []domain.PersonalAnswer {
	if as == nil {
		return []domain.PersonalAnswer{}
	}
	return as
}
