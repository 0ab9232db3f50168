package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/bondbrightly/bond-server/internal/domain"
)

// previewLimit caps the message_notification preview length, in runes.
const previewLimit = 50

// MessageStore is the slice of the persistent store the gateway needs.
type MessageStore interface {
	InsertMessage(ctx context.Context, senderID, receiverID, content string) (*domain.ChatMessage, error)
}

// Gateway is the single entry point for inbound realtime events. It owns no
// state of its own: it decodes events, delegates to the registry and room
// router, and emits outbound events back to users or rooms.
type Gateway struct {
	registry *Registry
	rooms    *RoomRouter
	messages MessageStore
}

// NewGateway wires the gateway to its collaborators.
func NewGateway(registry *Registry, rooms *RoomRouter, messages MessageStore) *Gateway {
	return &Gateway{
		registry: registry,
		rooms:    rooms,
		messages: messages,
	}
}

// Registry exposes the connection registry for presence queries.
func (g *Gateway) Registry() *Registry {
	return g.registry
}

// Dispatch handles one inbound event from one connection. Room-scoped
// events arriving before register are dropped; a failing handler reports
// to the sending client only and never takes the process down.
func (g *Gateway) Dispatch(ctx context.Context, c *Client, evt domain.Event) {
	switch evt.Type {
	case domain.EventRegister:
		g.handleRegister(c, evt.Payload)
	case domain.EventJoinChat:
		g.handleJoinChat(c, evt.Payload)
	case domain.EventChatMessage:
		g.handleChatMessage(ctx, c, evt.Payload)
	case domain.EventTyping:
		g.handleTyping(c, evt.Payload)
	case domain.EventCheckOnline:
		g.handleCheckOnline(c, evt.Payload)
	default:
		// Unknown event from a single client; drop it
	}
}

// Disconnect releases everything the connection held. Terminal: the client
// processes no further events.
func (g *Gateway) Disconnect(c *Client) {
	g.rooms.Leave(c)
	for _, change := range g.registry.Unregister(c) {
		g.broadcastPresence(change)
	}
}

func (g *Gateway) handleRegister(c *Client, raw json.RawMessage) {
	var p domain.RegisterPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.UserID == "" {
		return
	}

	changes := g.registry.Register(c, p.UserID)
	c.userID = p.UserID

	for _, change := range changes {
		g.broadcastPresence(change)
	}
}

func (g *Gateway) handleJoinChat(c *Client, raw json.RawMessage) {
	if c.userID == "" {
		return
	}

	var p domain.JoinChatPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.UserID == "" || p.FriendID == "" {
		return
	}

	g.rooms.Join(c, p.UserID, p.FriendID)
}

func (g *Gateway) handleChatMessage(ctx context.Context, c *Client, raw json.RawMessage) {
	if c.userID == "" {
		return
	}

	var p domain.ChatMessagePayload
	if err := json.Unmarshal(raw, &p); err != nil || p.SenderID == "" || p.ReceiverID == "" {
		return
	}

	stored, err := g.messages.InsertMessage(ctx, p.SenderID, p.ReceiverID, p.Text)
	if err != nil {
		log.Printf("Message insert failed for %s: %v", p.SenderID, err)
		c.Send(encodeEvent(domain.EventError, domain.ErrorPayload{
			Message: "Failed to send message",
		}))
		return
	}

	// The stored row is what goes out: its id and timestamp are
	// authoritative, not the client's.
	g.rooms.Broadcast(stored.SenderID, stored.ReceiverID,
		encodeEvent(domain.EventNewMessage, stored))

	g.registry.SendToUser(stored.ReceiverID,
		encodeEvent(domain.EventMessageNotification, domain.NotificationPayload{
			From:    stored.SenderID,
			Preview: truncate(stored.Content, previewLimit),
		}))
}

func (g *Gateway) handleTyping(c *Client, raw json.RawMessage) {
	if c.userID == "" {
		return
	}

	var p domain.TypingPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.UserID == "" || p.FriendID == "" {
		return
	}

	g.rooms.BroadcastExcept(p.UserID, p.FriendID, c,
		encodeEvent(domain.EventUserTyping, domain.UserTypingPayload{
			UserID:   p.UserID,
			IsTyping: p.IsTyping,
		}))
}

func (g *Gateway) handleCheckOnline(c *Client, raw json.RawMessage) {
	var p domain.CheckOnlinePayload
	if err := json.Unmarshal(raw, &p); err != nil || p.UserID == "" {
		return
	}

	c.Send(encodeEvent(domain.EventOnlineStatus, domain.PresencePayload{
		UserID:   p.UserID,
		IsOnline: g.registry.IsOnline(p.UserID),
	}))
}

// NotifyBothAnswered emits the unlock event to both participants, each from
// their own perspective: the submitter sees match.UserAnswer as their own,
// the friend sees the mirror image.
func (g *Gateway) NotifyBothAnswered(userID, friendID string, match *domain.AnswerMatch) {
	g.registry.SendToUser(userID, encodeEvent(domain.EventBothAnswered, domain.BothAnsweredPayload{
		Question:      match.Question,
		UserAnswer:    match.UserAnswer,
		PartnerAnswer: match.PartnerAnswer,
	}))
	g.registry.SendToUser(friendID, encodeEvent(domain.EventBothAnswered, domain.BothAnsweredPayload{
		Question:      match.Question,
		UserAnswer:    match.PartnerAnswer,
		PartnerAnswer: match.UserAnswer,
	}))
}

// NotifyFriendAdded pushes the new friendship to the added party's personal
// channel.
func (g *Gateway) NotifyFriendAdded(userID string, f *domain.Friendship) {
	g.registry.SendToUser(userID, encodeEvent(domain.EventFriendAdded, f))
}

// broadcastPresence fans a presence flip out to every connected client.
// Fire-and-forget: slow recipients drop the event instead of blocking.
func (g *Gateway) broadcastPresence(change PresenceChange) {
	g.registry.BroadcastAll(encodeEvent(domain.EventUserOnline, domain.PresencePayload{
		UserID:   change.UserID,
		IsOnline: change.Online,
	}))
}

// encodeEvent marshals an outbound event envelope.
func encodeEvent(t domain.EventType, payload any) []byte {
	body, _ := json.Marshal(payload)
	data, _ := json.Marshal(domain.Event{Type: t, Payload: body})
	return data
}

// truncate cuts s to at most limit runes.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
