package domain

import (
	"time"

	"github.com/google/uuid"
)

// Friendship statuses. Requests are auto-accepted for now.
const (
	FriendshipAccepted = "accepted"
	FriendshipPending  = "pending"
)

// DefaultRelationshipType is used when a friend request does not specify one.
const DefaultRelationshipType = "Friends"

// Friendship links two users. The pair is stored once, in the direction the
// request was sent; lookups always consider both directions.
type Friendship struct {
	ID               uuid.UUID `json:"id"`
	UserID           string    `json:"user_id"`
	FriendID         string    `json:"friend_id"`
	RelationshipType string    `json:"relationship_type"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// Friend is a friend-list entry: the friend's public profile fields merged
// with the friendship metadata.
type Friend struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Bio              string    `json:"bio"`
	ProfilePicture   string    `json:"profile_picture"`
	RelationshipType string    `json:"relationship_type"`
	FriendshipID     uuid.UUID `json:"friendship_id"`
}
