package ws

import "sync"

// roomSeparator joins the sorted pair of user IDs into a room key.
const roomSeparator = ":"

// RoomID returns the canonical room key for an unordered pair of users:
// the two IDs sorted lexicographically and joined with ":". RoomID(a, b)
// always equals RoomID(b, a), which is what guarantees both participants
// land in the same room no matter who initiates.
func RoomID(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return userA + roomSeparator + userB
}

// RoomRouter manages pair-room membership and fan-out. Rooms are purely
// derived routing groups: they are created on first join and removed when
// their last member leaves, with no separate conversation entity.
type RoomRouter struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]struct{}
	members map[*Client]map[string]struct{}
}

// NewRoomRouter creates an empty router.
func NewRoomRouter() *RoomRouter {
	return &RoomRouter{
		rooms:   make(map[string]map[*Client]struct{}),
		members: make(map[*Client]map[string]struct{}),
	}
}

// Join adds the connection to the pair room for userID/friendID. Joining
// twice has no additional effect, and one connection may be joined to any
// number of rooms.
func (rr *RoomRouter) Join(c *Client, userID, friendID string) {
	room := RoomID(userID, friendID)

	rr.mu.Lock()
	defer rr.mu.Unlock()

	set, ok := rr.rooms[room]
	if !ok {
		set = make(map[*Client]struct{})
		rr.rooms[room] = set
	}
	set[c] = struct{}{}

	joined, ok := rr.members[c]
	if !ok {
		joined = make(map[string]struct{})
		rr.members[c] = joined
	}
	joined[room] = struct{}{}
}

// Leave removes the connection from every room it joined. Called on
// disconnect; unknown connections are a no-op.
func (rr *RoomRouter) Leave(c *Client) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	for room := range rr.members[c] {
		set := rr.rooms[room]
		delete(set, c)
		if len(set) == 0 {
			delete(rr.rooms, room)
		}
	}
	delete(rr.members, c)
}

// Broadcast delivers data to every connection joined to the pair's room.
func (rr *RoomRouter) Broadcast(userID, friendID string, data []byte) {
	rr.broadcast(RoomID(userID, friendID), nil, data)
}

// BroadcastExcept delivers data to the pair's room, skipping one
// connection. Used for typing relays, which exclude the sender.
func (rr *RoomRouter) BroadcastExcept(userID, friendID string, except *Client, data []byte) {
	rr.broadcast(RoomID(userID, friendID), except, data)
}

func (rr *RoomRouter) broadcast(room string, except *Client, data []byte) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	for c := range rr.rooms[room] {
		if c == except {
			continue
		}
		c.Send(data)
	}
}

// MemberCount returns how many connections are joined to the pair's room.
func (rr *RoomRouter) MemberCount(userID, friendID string) int {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	return len(rr.rooms[RoomID(userID, friendID)])
}
