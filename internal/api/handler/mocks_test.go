package handler_test

import (
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"homechat/backend/internal/api/handler"
	"homechat/backend/internal/models"
	"homechat/backend/internal/notify"
	"homechat/backend/internal/realtime"
)

// MockStorage is a testify mock of the storage interface for handler tests.
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ConversationSummary), args.Error(1)
}

func (m *MockStorage) CreateMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) ListMessages(conversationID uint, offset, limit int) ([]models.Message, error) {
	args := m.Called(conversationID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

// spyClient is a registry client that records pushed events.
type spyClient struct {
	userID       uint
	connectionID string
	RecvChannel  chan realtime.Event // Buffered to prevent blocking in tests
}

func newSpyClient(userID uint, connectionID string) *spyClient {
	return &spyClient{
		userID:       userID,
		connectionID: connectionID,
		RecvChannel:  make(chan realtime.Event, 10),
	}
}

func (c *spyClient) GetUserID() uint                       { return c.userID }
func (c *spyClient) GetRole() string                       { return "member" }
func (c *spyClient) GetConnectionID() string               { return c.connectionID }
func (c *spyClient) GetSendChannel() chan<- realtime.Event { return c.RecvChannel }
func (c *spyClient) Run()                                  {}
func (c *spyClient) Close()                                {}

func (c *spyClient) DrainEvents() []realtime.Event {
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

// testEnv wires a handler onto mocks the way main does onto real services.
type testEnv struct {
	storage *MockStorage
	hub     *realtime.Hub
	router  *gin.Engine
}

// newTestEnv builds the full route table with the given user pre-authenticated.
func newTestEnv(user *models.User) *testEnv {
	gin.SetMode(gin.TestMode)

	storageMock := new(MockStorage)
	hub := realtime.NewHub(storageMock)
	notifications := notify.NewNotificationService(storageMock, hub.Registry, notify.LogDispatcher{})
	h := handler.NewHandler(hub, storageMock, notifications, "test-secret")

	r := gin.New()
	api := r.Group("/api", func(c *gin.Context) {
		c.Set("user", user)
		c.Next()
	})

	api.POST("/conversations", h.StartConversation)
	api.GET("/conversations", h.ListConversations)
	api.GET("/conversations/:id", h.GetConversation)
	api.GET("/conversations/:id/messages", h.ListConversationMessages)
	api.POST("/conversations/:id/messages", h.SendMessage)
	api.POST("/conversations/:id/read", h.MarkConversationRead)
	api.POST("/conversations/:id/typing", h.SetTyping)
	api.GET("/conversations/:id/typing", h.ListTyping)

	api.GET("/notifications", h.ListNotifications)
	api.GET("/notifications/unread-count", h.UnreadNotificationCount)
	api.POST("/notifications/read-all", h.MarkAllNotificationsRead)
	api.POST("/notifications/bulk", h.BulkNotifications)
	api.POST("/notifications/:id/read", h.MarkNotificationRead)
	api.PATCH("/notifications/:id", h.UpdateNotification)
	api.DELETE("/notifications/:id", h.DeleteNotification)
	api.GET("/notifications/preferences", h.GetNotificationPreferences)
	api.PUT("/notifications/preferences", h.UpdateNotificationPreferences)

	return &testEnv{storage: storageMock, hub: hub, router: r}
}
