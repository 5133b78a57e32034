package models

import "time"

// Message kinds. Listing cards are rendered by the client from the body,
// which carries the listing reference as JSON.
const (
	MessageKindText    = "text"
	MessageKindListing = "listing_card"
)

// Message is one entry in a conversation. Messages are immutable once
// written; there is no edit or delete path.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time `gorm:"index:idx_conversation_created" json:"createdAt"`
	ConversationID uint      `gorm:"index:idx_conversation_created;not null" json:"conversationId"`
	SenderID       uint      `gorm:"index;not null" json:"senderId"`
	Kind           string    `gorm:"size:32;default:text" json:"kind"`
	Body           string    `gorm:"size:5000" json:"body"`
}

// MessageRead marks a single message as read by a single user. The composite
// primary key makes re-marking a no-op at the database level.
type MessageRead struct {
	MessageID      uint      `gorm:"primaryKey;autoIncrement:false" json:"messageId"`
	UserID         uint      `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	ConversationID uint      `gorm:"index;not null" json:"conversationId"`
	ReadAt         time.Time `json:"readAt"`
}
