package realtime_test

import (
	"homechat/backend/internal/realtime"
)

type MockClient struct {
	userID       uint
	role         string
	connectionID string
	closed       bool

	// RecvChannel captures everything delivered to this client.
	RecvChannel chan realtime.Event
}

func newMockClient(userID uint, connectionID string) *MockClient {
	return &MockClient{
		userID:       userID,
		role:         "member",
		connectionID: connectionID,
		// Buffered to prevent blocking in tests
		RecvChannel: make(chan realtime.Event, 10),
	}
}

func (c *MockClient) GetUserID() uint         { return c.userID }
func (c *MockClient) GetRole() string         { return c.role }
func (c *MockClient) GetConnectionID() string { return c.connectionID }

func (c *MockClient) GetSendChannel() chan<- realtime.Event {
	return c.RecvChannel
}

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.closed = true
}

// DrainEvents empties the receive channel and returns what was delivered.
func (c *MockClient) DrainEvents() []realtime.Event {
	var events []realtime.Event
	for {
		select {
		case ev := <-c.RecvChannel:
			events = append(events, ev)
		default:
			return events
		}
	}
}
