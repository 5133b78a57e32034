package notify_test

import (
	"errors"

	"github.com/stretchr/testify/mock"

	"homechat/backend/internal/models"
	"homechat/backend/internal/realtime"
)

// MockStorage is a mock implementation of the storage.Storage interface.
// It uses testify/mock to allow flexible expectation setting in tests.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetUserByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUsersByIDs(ids []uint) ([]models.User, error) {
	args := m.Called(ids)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockStorage) UpdateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetOrCreateConversation(userID, otherID uint, listingID *uint) (*models.Conversation, bool, error) {
	args := m.Called(userID, otherID, listingID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Conversation), args.Bool(1), args.Error(2)
}

func (m *MockStorage) GetConversationByID(id uint) (*models.Conversation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *MockStorage) ListConversationSummaries(userID uint, search string) ([]models.ConversationSummary, error) {
	args := m.Called(userID, search)
	return args.Get(0).([]models.ConversationSummary), args.Error(1)
}

func (m *MockStorage) CreateMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) ListMessages(conversationID uint, offset, limit int) ([]models.Message, error) {
	args := m.Called(conversationID, offset, limit)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStorage) CountUnreadMessages(conversationID, userID uint) (int64, error) {
	args := m.Called(conversationID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) MarkConversationRead(conversationID, userID uint) ([]uint, error) {
	args := m.Called(conversationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockStorage) CreateNotification(n *models.Notification) error {
	args := m.Called(n)
	return args.Error(0)
}

func (m *MockStorage) GetNotification(id, recipientID uint) (*models.Notification, error) {
	args := m.Called(id, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockStorage) ListNotifications(recipientID uint, onlyUnread bool, offset, limit int) ([]models.Notification, error) {
	args := m.Called(recipientID, onlyUnread, offset, limit)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockStorage) MarkNotificationRead(id, recipientID uint) (*models.Notification, error) {
	args := m.Called(id, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockStorage) MarkAllNotificationsRead(recipientID uint) (int64, error) {
	args := m.Called(recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) UpdateNotification(id, recipientID uint, update models.NotificationUpdate) (*models.Notification, error) {
	args := m.Called(id, recipientID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockStorage) DeleteNotification(id, recipientID uint) error {
	args := m.Called(id, recipientID)
	return args.Error(0)
}

func (m *MockStorage) BulkUpdateNotifications(recipientID uint, ids []uint, action string) (int64, error) {
	args := m.Called(recipientID, ids, action)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) CountUnreadNotifications(recipientID uint) (int64, error) {
	args := m.Called(recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) MarkConversationNotificationsRead(recipientID, conversationID uint) (int64, error) {
	args := m.Called(recipientID, conversationID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) GetOrCreatePreferences(userID uint) (*models.NotificationPreference, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NotificationPreference), args.Error(1)
}

func (m *MockStorage) UpdatePreferences(userID uint, changes map[string]bool) (*models.NotificationPreference, error) {
	args := m.Called(userID, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NotificationPreference), args.Error(1)
}

func (m *MockStorage) SetTyping(conversationID, userID uint) error {
	args := m.Called(conversationID, userID)
	return args.Error(0)
}

func (m *MockStorage) GetTypingUserIDs(conversationID uint, participantIDs []uint) ([]uint, error) {
	args := m.Called(conversationID, participantIDs)
	return args.Get(0).([]uint), args.Error(1)
}

// mockClient is a test double for the realtime.Client interface so the
// tests can observe what the registry delivers.
type mockClient struct {
	userID       uint
	connectionID string

	RecvChannel chan realtime.Event
}

func newMockClient(userID uint, connectionID string) *mockClient {
	return &mockClient{
		userID:       userID,
		connectionID: connectionID,
		// Buffered to prevent blocking in tests
		RecvChannel: make(chan realtime.Event, 10),
	}
}

func (c *mockClient) GetUserID() uint                       { return c.userID }
func (c *mockClient) GetRole() string                       { return "member" }
func (c *mockClient) GetConnectionID() string               { return c.connectionID }
func (c *mockClient) GetSendChannel() chan<- realtime.Event { return c.RecvChannel }
func (c *mockClient) Run()                                  {}
func (c *mockClient) Close()                                {}

// DrainEvents empties the receive channel and returns what was delivered.
func (c *mockClient) DrainEvents() []realtime.Event {
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

// failingDispatcher always errors, for exercising the best-effort path.
type failingDispatcher struct {
	calls chan *models.Notification
}

func (d *failingDispatcher) Dispatch(user *models.User, n *models.Notification) error {
	if d.calls != nil {
		d.calls <- n
	}
	return errors.New("smtp unavailable")
}

// recordingDispatcher captures dispatched notifications.
type recordingDispatcher struct {
	calls chan *models.Notification
}

func (d *recordingDispatcher) Dispatch(user *models.User, n *models.Notification) error {
	d.calls <- n
	return nil
}
