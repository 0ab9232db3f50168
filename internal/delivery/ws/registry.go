package ws

import "sync"

// PresenceChange records one online/offline transition caused by a
// register or unregister call.
type PresenceChange struct {
	UserID string
	Online bool
}

// Registry tracks which users currently have live connections. A user is
// online iff their connection set is non-empty; entries are created lazily
// and removed when the set empties. This is the only long-lived shared
// state in the realtime layer, and it is never persisted.
type Registry struct {
	mu      sync.RWMutex
	users   map[string]map[*Client]struct{}
	handles map[*Client]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		users:   make(map[string]map[*Client]struct{}),
		handles: make(map[*Client]string),
	}
}

// Register associates a connection with a user and returns the presence
// transitions it caused: at most one offline flip (when a handle is
// re-associated away from its previous user) and one online flip (on the
// user's 0 -> 1 connection). Registering the same handle for the same user
// twice is a no-op.
func (r *Registry) Register(c *Client, userID string) []PresenceChange {
	r.mu.Lock()
	defer r.mu.Unlock()

	var changes []PresenceChange

	if prev, ok := r.handles[c]; ok {
		if prev == userID {
			return nil
		}
		if flipped := r.removeLocked(c, prev); flipped {
			changes = append(changes, PresenceChange{UserID: prev, Online: false})
		}
	}

	set, ok := r.users[userID]
	if !ok {
		set = make(map[*Client]struct{})
		r.users[userID] = set
	}
	set[c] = struct{}{}
	r.handles[c] = userID

	if len(set) == 1 {
		changes = append(changes, PresenceChange{UserID: userID, Online: true})
	}
	return changes
}

// Unregister removes a connection on disconnect. Returns the offline flip
// if this was the user's last connection. Unknown handles are a no-op.
func (r *Registry) Unregister(c *Client) []PresenceChange {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.handles[c]
	if !ok {
		return nil
	}
	delete(r.handles, c)

	if flipped := r.removeLocked(c, userID); flipped {
		return []PresenceChange{{UserID: userID, Online: false}}
	}
	return nil
}

// removeLocked drops c from userID's set and reports whether the set became
// empty. Caller must hold r.mu.
func (r *Registry) removeLocked(c *Client, userID string) bool {
	set, ok := r.users[userID]
	if !ok {
		return false
	}
	delete(set, c)
	if len(set) == 0 {
		delete(r.users, userID)
		return true
	}
	return false
}

// IsOnline reports whether the user has at least one live connection.
func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users[userID]) > 0
}

// SendToUser delivers data to every live connection of one user. No-op if
// the user has no connections; there is no offline queuing.
func (r *Registry) SendToUser(userID string, data []byte) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for c := range r.users[userID] {
		c.Send(data)
	}
}

// BroadcastAll delivers data to every live connection of every user.
func (r *Registry) BroadcastAll(data []byte) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for c := range r.handles {
		c.Send(data)
	}
}

// ConnectionCount returns the number of live connections for one user.
func (r *Registry) ConnectionCount(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users[userID])
}
