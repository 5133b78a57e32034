package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification types. The set is closed: anything else is rejected before
// a row is written.
const (
	NotificationTypeMessage = "message"
	NotificationTypeBooking = "booking"
	NotificationTypeReview  = "review"
	NotificationTypeSystem  = "system"
)

// Notification priorities.
const (
	NotificationPriorityLow    = "low"
	NotificationPriorityNormal = "normal"
	NotificationPriorityHigh   = "high"
	NotificationPriorityUrgent = "urgent"
)

// Reference types stored alongside a notification so the client can link
// back to the object that produced it.
const (
	RefTypeConversation = "conversation"
	RefTypeListing      = "listing"
	RefTypeBooking      = "booking"
)

// Bulk actions accepted by the batch notification endpoint.
const (
	BulkActionMarkRead   = "markRead"
	BulkActionMarkUnread = "markUnread"
	BulkActionDelete     = "delete"
)

// Notification is a persisted in-app notification owned by exactly one
// recipient. All mutations are scoped to the owner; nobody else can tell
// whether a given id exists.
type Notification struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	RecipientID uint           `gorm:"index;not null" json:"recipientId"`
	Type        string         `gorm:"size:32;index;not null" json:"type"`
	Priority    string         `gorm:"size:16;default:normal" json:"priority"`
	Title       string         `gorm:"size:120" json:"title"`
	Message     string         `gorm:"size:500" json:"message"`
	RefType     string         `gorm:"size:32" json:"refType,omitempty"`
	RefID       uint           `json:"refId,omitempty"`
	ActionURL   string         `gorm:"size:255" json:"actionUrl,omitempty"`
	ActionText  string         `gorm:"size:64" json:"actionText,omitempty"`
	Extra       datatypes.JSON `json:"extra,omitempty"`
	IsRead      bool           `gorm:"default:false;index" json:"isRead"`
	ReadAt      *time.Time     `json:"readAt,omitempty"`
}

// NotificationUpdate carries a partial update to a notification. Nil fields
// are left untouched.
type NotificationUpdate struct {
	Title      *string `json:"title,omitempty" binding:"omitempty,max=120"`
	Message    *string `json:"message,omitempty" binding:"omitempty,max=500"`
	Priority   *string `json:"priority,omitempty" binding:"omitempty,oneof=low normal high urgent"`
	ActionURL  *string `json:"actionUrl,omitempty" binding:"omitempty,max=255"`
	ActionText *string `json:"actionText,omitempty" binding:"omitempty,max=64"`
	Read       *bool   `json:"read,omitempty"`
}

// IsValidNotificationType reports whether t is one of the closed set of
// notification types.
func IsValidNotificationType(t string) bool {
	switch t {
	case NotificationTypeMessage, NotificationTypeBooking, NotificationTypeReview, NotificationTypeSystem:
		return true
	}
	return false
}

// IsValidNotificationPriority reports whether p is a known priority.
func IsValidNotificationPriority(p string) bool {
	switch p {
	case NotificationPriorityLow, NotificationPriorityNormal, NotificationPriorityHigh, NotificationPriorityUrgent:
		return true
	}
	return false
}

// IsValidBulkAction reports whether a names a supported batch operation.
func IsValidBulkAction(a string) bool {
	switch a {
	case BulkActionMarkRead, BulkActionMarkUnread, BulkActionDelete:
		return true
	}
	return false
}
