package realtime_test

import (
	"github.com/stretchr/testify/mock"

	"homechat/backend/internal/models"
)

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
