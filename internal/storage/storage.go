// Package storage is the persistence layer: PostgreSQL through gorm for
// durable records, Redis for short-lived typing state. Handlers and
// services depend on the Storage interface, never on gorm directly.
package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"homechat/backend/internal/config"
	"homechat/backend/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist. Lookups scoped
	// to an owner return it for records owned by someone else too, so a
	// caller cannot probe for foreign ids.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidInput is returned when a write is refused before touching
	// the database.
	ErrInvalidInput = errors.New("invalid input")
)

type Storage interface {
	GetUserByID(id uint) (*models.User, error)
	GetUsersByIDs(ids []uint) ([]models.User, error)
	UpdateUser(user *models.User) error

	GetOrCreateConversation(userID, otherID uint, listingID *uint) (*models.Conversation, bool, error)
	GetConversationByID(id uint) (*models.Conversation, error)
	ListConversationSummaries(userID uint, search string) ([]models.ConversationSummary, error)

	CreateMessage(msg *models.Message) error
	ListMessages(conversationID uint, offset, limit int) ([]models.Message, error)
	CountUnreadMessages(conversationID, userID uint) (int64, error)
	MarkConversationRead(conversationID, userID uint) ([]uint, error)

	CreateNotification(n *models.Notification) error
	GetNotification(id, recipientID uint) (*models.Notification, error)
	ListNotifications(recipientID uint, onlyUnread bool, offset, limit int) ([]models.Notification, error)
	MarkNotificationRead(id, recipientID uint) (*models.Notification, error)
	MarkAllNotificationsRead(recipientID uint) (int64, error)
	UpdateNotification(id, recipientID uint, update models.NotificationUpdate) (*models.Notification, error)
	DeleteNotification(id, recipientID uint) error
	BulkUpdateNotifications(recipientID uint, ids []uint, action string) (int64, error)
	CountUnreadNotifications(recipientID uint) (int64, error)
	MarkConversationNotificationsRead(recipientID, conversationID uint) (int64, error)

	GetOrCreatePreferences(userID uint) (*models.NotificationPreference, error)
	UpdatePreferences(userID uint, changes map[string]bool) (*models.NotificationPreference, error)

	SetTyping(conversationID, userID uint) error
	GetTypingUserIDs(conversationID uint, participantIDs []uint) ([]uint, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// NormalizePage clamps client-supplied paging values to the configured
// bounds. A zero or negative limit falls back to the default page size.
func NormalizePage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = config.DefaultPageSize
	}
	if limit > config.MaxPageSize {
		limit = config.MaxPageSize
	}
	return offset, limit
}
