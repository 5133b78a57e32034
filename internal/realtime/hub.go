package realtime

import (
	"errors"
	"log"
	"sync"

	"homechat/backend/internal/storage"
)

// ErrNotParticipant is returned when a client tries to join a conversation
// it does not belong to, or one that does not exist. The two cases are
// indistinguishable on purpose.
var ErrNotParticipant = errors.New("not a participant of this conversation")

// Hub layers room membership on top of the connection registry. A room is
// the set of connections that explicitly joined a conversation; broadcasts
// reach the union of the room and every participant's direct connections.
type Hub struct {
	Registry *Registry
	Storage  storage.Storage

	mu sync.RWMutex
	// rooms maps conversation id to the connections joined to it.
	rooms map[uint]map[string]Client
	// joined maps connection id to the conversations it has joined, so a
	// disconnect can leave all of them without a scan.
	joined map[string]map[uint]struct{}
}

func NewHub(s storage.Storage) *Hub {
	return &Hub{
		Registry: NewRegistry(),
		Storage:  s,
		rooms:    make(map[uint]map[string]Client),
		joined:   make(map[string]map[uint]struct{}),
	}
}

// Register admits a connection: it enters the registry and receives the
// connection-established greeting before anything else.
func (h *Hub) Register(c Client) {
	h.Registry.Register(c)
	deliver(c, Event{
		Event: EventConnectionEstablished,
		Data: ConnectionEstablishedData{
			ConnectionID: c.GetConnectionID(),
			UserID:       c.GetUserID(),
		},
	})
	log.Printf("Connection %s registered for user %d", c.GetConnectionID(), c.GetUserID())
}

// Unregister removes a connection from every room it joined and from the
// registry. Safe to call for a connection that was never registered.
func (h *Hub) Unregister(c Client) {
	connID := c.GetConnectionID()

	h.mu.Lock()
	for convID := range h.joined[connID] {
		h.removeFromRoom(convID, connID)
	}
	delete(h.joined, connID)
	h.mu.Unlock()

	h.Registry.Unregister(c)
	log.Printf("Connection %s unregistered for user %d", connID, c.GetUserID())
}

// JoinConversation checks the client's user against the conversation's
// participant list and, if it belongs, adds the connection to the room.
// Membership is re-validated on every join; nothing is cached from the
// handshake.
func (h *Hub) JoinConversation(c Client, conversationID uint) error {
	conv, err := h.Storage.GetConversationByID(conversationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotParticipant
		}
		return err
	}
	if !conv.HasParticipant(c.GetUserID()) {
		return ErrNotParticipant
	}

	connID := c.GetConnectionID()
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[conversationID] == nil {
		h.rooms[conversationID] = make(map[string]Client)
	}
	h.rooms[conversationID][connID] = c

	if h.joined[connID] == nil {
		h.joined[connID] = make(map[uint]struct{})
	}
	h.joined[connID][conversationID] = struct{}{}
	return nil
}

// LeaveConversation removes the connection from the room. Leaving a room
// the connection never joined is a no-op.
func (h *Hub) LeaveConversation(c Client, conversationID uint) {
	connID := c.GetConnectionID()

	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromRoom(conversationID, connID)
	if set, ok := h.joined[connID]; ok {
		delete(set, conversationID)
		if len(set) == 0 {
			delete(h.joined, connID)
		}
	}
}

// BroadcastToConversation delivers the event once to every connection in
// the union of the room and the recipients' direct connections. A
// participant who never joined the room still gets the event on all their
// devices; a joined connection never gets it twice.
func (h *Hub) BroadcastToConversation(conversationID uint, recipientIDs []uint, ev Event) {
	seen := make(map[string]struct{})

	h.mu.RLock()
	roomClients := make([]Client, 0, len(h.rooms[conversationID]))
	for _, c := range h.rooms[conversationID] {
		roomClients = append(roomClients, c)
	}
	h.mu.RUnlock()

	for _, c := range roomClients {
		if _, dup := seen[c.GetConnectionID()]; dup {
			continue
		}
		seen[c.GetConnectionID()] = struct{}{}
		deliver(c, ev)
	}
	for _, userID := range recipientIDs {
		for _, c := range h.Registry.snapshot(userID) {
			if _, dup := seen[c.GetConnectionID()]; dup {
				continue
			}
			seen[c.GetConnectionID()] = struct{}{}
			deliver(c, ev)
		}
	}
}

// JoinedConversations returns the conversations a connection has joined.
func (h *Hub) JoinedConversations(connectionID string) []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]uint, 0, len(h.joined[connectionID]))
	for id := range h.joined[connectionID] {
		ids = append(ids, id)
	}
	return ids
}

// Shutdown closes every connection and drops all room state.
func (h *Hub) Shutdown() {
	h.Registry.Clear()

	h.mu.Lock()
	h.rooms = make(map[uint]map[string]Client)
	h.joined = make(map[string]map[uint]struct{})
	h.mu.Unlock()
}

// removeFromRoom must be called with h.mu held.
func (h *Hub) removeFromRoom(conversationID uint, connectionID string) {
	if room, ok := h.rooms[conversationID]; ok {
		delete(room, connectionID)
		if len(room) == 0 {
			delete(h.rooms, conversationID)
		}
	}
}
