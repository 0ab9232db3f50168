package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bondbrightly/bond-server/internal/domain"
)

// FriendshipExists reports whether any friendship row links the two users,
// in either direction and regardless of status.
func (s *Store) FriendshipExists(ctx context.Context, userA, userB string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM friendships
			WHERE (user_id = $1 AND friend_id = $2)
			   OR (user_id = $2 AND friend_id = $1)
		)`, userA, userB).Scan(&exists)
	return exists, err
}

// CreateFriendship inserts an accepted friendship from userID to friendID
// and returns the stored row.
func (s *Store) CreateFriendship(ctx context.Context, userID, friendID, relationshipType string) (*domain.Friendship, error) {
	if relationshipType == "" {
		relationshipType = domain.DefaultRelationshipType
	}

	f := &domain.Friendship{
		ID:               uuid.New(),
		UserID:           userID,
		FriendID:         friendID,
		RelationshipType: relationshipType,
		Status:           domain.FriendshipAccepted,
		CreatedAt:        time.Now(),
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO friendships (id, user_id, friend_id, relationship_type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		f.ID, f.UserID, f.FriendID, f.RelationshipType, f.Status, f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ListFriends returns the accepted friends of userID with their public
// profile fields merged in.
func (s *Store) ListFriends(ctx context.Context, userID string) ([]domain.Friend, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT f.id, f.relationship_type, p.id, p.username, p.bio, p.profile_picture
		FROM friendships f
		JOIN profiles p
		  ON p.id = CASE WHEN f.user_id = $1 THEN f.friend_id ELSE f.user_id END
		WHERE (f.user_id = $1 OR f.friend_id = $1) AND f.status = $2
		ORDER BY f.created_at`, userID, domain.FriendshipAccepted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	friends := make([]domain.Friend, 0)
	for rows.Next() {
		var fr domain.Friend
		if err := rows.Scan(&fr.FriendshipID, &fr.RelationshipType,
			&fr.ID, &fr.Username, &fr.Bio, &fr.ProfilePicture); err != nil {
			return nil, err
		}
		friends = append(friends, fr)
	}
	return friends, rows.Err()
}

// DeleteFriendship removes a friendship by its ID. Deleting a friendship
// that does not exist is not an error.
func (s *Store) DeleteFriendship(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM friendships WHERE id = $1`, id)
	return err
}
