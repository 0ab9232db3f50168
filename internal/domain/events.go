package domain

import "encoding/json"

// EventType identifies a realtime event on the wire.
type EventType string

// Inbound events (client -> server).
const (
	EventRegister    EventType = "register"
	EventJoinChat    EventType = "join_chat"
	EventChatMessage EventType = "chat_message"
	EventTyping      EventType = "typing"
	EventCheckOnline EventType = "check_online"
)

// Outbound events (server -> client).
const (
	EventNewMessage          EventType = "new_message"
	EventMessageNotification EventType = "message_notification"
	EventUserTyping          EventType = "user_typing"
	EventUserOnline          EventType = "user_online"
	EventOnlineStatus        EventType = "online_status"
	EventBothAnswered        EventType = "both_answered"
	EventFriendAdded         EventType = "friend_added"
	EventError               EventType = "error"
)

// Event is the wire envelope for both directions.
type Event struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// RegisterPayload binds a connection to a user identity.
type RegisterPayload struct {
	UserID string `json:"userId"`
}

// JoinChatPayload joins the pair room for userId/friendId.
type JoinChatPayload struct {
	UserID   string `json:"userId"`
	FriendID string `json:"friendId"`
}

// ChatMessagePayload carries an outgoing chat message. The stored message
// echoed back in new_message is the authoritative representation.
type ChatMessagePayload struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
}

// TypingPayload signals a typing-state change to the pair room.
type TypingPayload struct {
	UserID   string `json:"userId"`
	FriendID string `json:"friendId"`
	IsTyping bool   `json:"isTyping"`
}

// CheckOnlinePayload asks for one user's current presence.
type CheckOnlinePayload struct {
	UserID string `json:"userId"`
}

// PresencePayload is the body of user_online broadcasts and online_status
// replies.
type PresencePayload struct {
	UserID   string `json:"userId"`
	IsOnline bool   `json:"isOnline"`
}

// UserTypingPayload is relayed to the pair room, excluding the sender.
type UserTypingPayload struct {
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

// NotificationPayload is the lightweight message_notification sent to the
// receiver's personal channel.
type NotificationPayload struct {
	From    string `json:"from"`
	Preview string `json:"preview"`
}

// BothAnsweredPayload unlocks the chat for one participant. The two
// deliveries are mirror images: each side sees its own answer as userAnswer.
type BothAnsweredPayload struct {
	Question      string `json:"question"`
	UserAnswer    string `json:"userAnswer"`
	PartnerAnswer string `json:"partnerAnswer"`
}

// ErrorPayload reports a failed operation to the originating client only.
type ErrorPayload struct {
	Message string `json:"message"`
}
