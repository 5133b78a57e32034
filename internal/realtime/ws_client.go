package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// WebSocketClient implements the Client interface over a gorilla
// websocket connection.
type WebSocketClient struct {
	UserID       uint
	Role         string
	ConnectionID string
	Conn         *websocket.Conn
	Hub          *Hub
	Send         chan Event

	done chan struct{}
	once sync.Once
}

func NewWebSocketClient(conn *websocket.Conn, hub *Hub, userID uint, role string) *WebSocketClient {
	return &WebSocketClient{
		UserID:       userID,
		Role:         role,
		ConnectionID: uuid.New().String(),
		Conn:         conn,
		Hub:          hub,
		Send:         make(chan Event, 256),
		done:         make(chan struct{}),
	}
}

func (c *WebSocketClient) GetUserID() uint              { return c.UserID }
func (c *WebSocketClient) GetRole() string              { return c.Role }
func (c *WebSocketClient) GetConnectionID() string      { return c.ConnectionID }
func (c *WebSocketClient) GetSendChannel() chan<- Event { return c.Send }

// Run starts the pumps for the websocket connection.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close stops the write pump. The Send channel itself stays open so a
// concurrent delivery can never hit a closed channel.
func (c *WebSocketClient) Close() {
	c.once.Do(func() {
		close(c.done)
	})
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Close()
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading message: %v", err)
			}
			break
		}

		var ev Event
		if err := json.Unmarshal(message, &ev); err != nil {
			log.Printf("Error decoding JSON from connection %s: %v", c.ConnectionID, err)
			continue
		}

		c.handleEvent(ev)
	}
}

// handleEvent processes one client-to-server event. Every join and leave
// gets an acknowledgement on the same event name.
func (c *WebSocketClient) handleEvent(ev Event) {
	switch ev.Event {
	case EventJoinConversation:
		convID, ok := conversationIDFrom(ev.Data)
		if !ok {
			c.ack(EventJoinConversation, JoinAck{OK: false, Error: "conversationId required"})
			return
		}
		if err := c.Hub.JoinConversation(c, convID); err != nil {
			if err == ErrNotParticipant {
				// Same answer for "no such conversation" and "not yours",
				// so a non-member cannot probe for existing ids.
				c.ack(EventJoinConversation, JoinAck{OK: false, Error: "conversation not found"})
				return
			}
			log.Printf("ERROR: join conversation %d failed for connection %s: %v", convID, c.ConnectionID, err)
			c.ack(EventJoinConversation, JoinAck{OK: false, Error: "internal error"})
			return
		}
		c.ack(EventJoinConversation, JoinAck{OK: true, ConversationID: convID})

	case EventLeaveConversation:
		convID, ok := conversationIDFrom(ev.Data)
		if !ok {
			c.ack(EventLeaveConversation, JoinAck{OK: false, Error: "conversationId required"})
			return
		}
		c.Hub.LeaveConversation(c, convID)
		c.ack(EventLeaveConversation, JoinAck{OK: true, ConversationID: convID})

	default:
		log.Printf("Unknown event %q from connection %s", ev.Event, c.ConnectionID)
	}
}

func (c *WebSocketClient) ack(event string, data JoinAck) {
	deliver(c, Event{Event: event, Data: data})
}

// conversationIDFrom digs the conversation id out of a decoded event
// payload. JSON numbers arrive as float64.
func conversationIDFrom(data interface{}) (uint, bool) {
	payload, ok := data.(map[string]interface{})
	if !ok {
		return 0, false
	}
	raw, ok := payload["conversationId"].(float64)
	if !ok || raw <= 0 {
		return 0, false
	}
	return uint(raw), true
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case ev := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))

			data, err := json.Marshal(ev)
			if err != nil {
				log.Printf("Error encoding JSON for connection %s: %v", c.ConnectionID, err)
				continue
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(data)
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
