package realtime

import (
	"log"
	"sync"
)

// Registry tracks every live connection, keyed by user id and then by
// connection id, so one user can hold several connections at once. All
// methods are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	clients map[uint]map[string]Client
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[uint]map[string]Client),
	}
}

// Register adds a connection to its user's set.
func (r *Registry) Register(c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID := c.GetUserID()
	if r.clients[userID] == nil {
		r.clients[userID] = make(map[string]Client)
	}
	r.clients[userID][c.GetConnectionID()] = c
}

// Unregister removes a connection. When the user's last connection goes,
// the user's entry goes with it, so IsOnline flips to false.
func (r *Registry) Unregister(c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID := c.GetUserID()
	if set, ok := r.clients[userID]; ok {
		delete(set, c.GetConnectionID())
		if len(set) == 0 {
			delete(r.clients, userID)
		}
	}
}

// SendToUser delivers the event to every connection the user has and
// reports whether at least one connection received it. Sending to a user
// with no connections is not an error, just false.
func (r *Registry) SendToUser(userID uint, ev Event) bool {
	delivered := false
	for _, c := range r.snapshot(userID) {
		if deliver(c, ev) {
			delivered = true
		}
	}
	return delivered
}

// SendToUsers delivers the event to every connection of every listed user
// and reports whether anyone at all received it.
func (r *Registry) SendToUsers(userIDs []uint, ev Event) bool {
	delivered := false
	for _, userID := range userIDs {
		if r.SendToUser(userID, ev) {
			delivered = true
		}
	}
	return delivered
}

// Connections returns the connection ids a user currently holds.
func (r *Registry) Connections(userID uint) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.clients[userID]))
	for id := range r.clients[userID] {
		ids = append(ids, id)
	}
	return ids
}

// IsOnline reports whether the user has at least one live connection.
func (r *Registry) IsOnline(userID uint) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients[userID]) > 0
}

// Clear closes every connection and empties the registry.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, set := range r.clients {
		for _, c := range set {
			c.Close()
		}
	}
	r.clients = make(map[uint]map[string]Client)
}

// snapshot copies the user's connection set out from under the lock so
// delivery never blocks other registry calls.
func (r *Registry) snapshot(userID uint) []Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Client, 0, len(r.clients[userID]))
	for _, c := range r.clients[userID] {
		out = append(out, c)
	}
	return out
}

// deliver hands the event to one client without blocking. A client whose
// send buffer is full misses the event; slow consumers must not stall
// everyone else.
func deliver(c Client, ev Event) bool {
	select {
	case c.GetSendChannel() <- ev:
		return true
	default:
		log.Printf("Dropping %s event for connection %s: send buffer full", ev.Event, c.GetConnectionID())
		return false
	}
}
