package realtime

import "homechat/backend/internal/models"

// Event is the wire envelope for everything that crosses a websocket,
// in both directions.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Client-to-server event names.
const (
	EventJoinConversation  = "join-conversation"
	EventLeaveConversation = "leave-conversation"
)

// Server-to-client event names.
const (
	EventConnectionEstablished   = "connection-established"
	EventConversationMessage     = "conversation-message"
	EventConversationUpdated     = "conversation-updated"
	EventConversationRead        = "conversation-read"
	EventNotificationCreated     = "notification-created"
	EventNotificationUpdated     = "notification-updated"
	EventNotificationDeleted     = "notification-deleted"
	EventNotificationUnreadCount = "notification-unread-count"
)

// ConnectionEstablishedData greets a connection right after admission.
type ConnectionEstablishedData struct {
	ConnectionID string `json:"connectionId"`
	UserID       uint   `json:"userId"`
}

// JoinAck answers a join or leave request. Error is set only when OK is
// false.
type JoinAck struct {
	OK             bool   `json:"ok"`
	ConversationID uint   `json:"conversationId,omitempty"`
	Error          string `json:"error,omitempty"`
}

// ConversationMessageData carries a freshly persisted message to everyone
// in the thread.
type ConversationMessageData struct {
	ConversationID uint           `json:"conversationId"`
	Message        models.Message `json:"message"`
	SenderID       uint           `json:"senderId"`
}

// ConversationUpdatedData refreshes one recipient's inbox row. UnreadCount
// is that recipient's own count, so this event is always per-user.
type ConversationUpdatedData struct {
	ConversationID uint            `json:"conversationId"`
	LastMessage    *models.Message `json:"lastMessage,omitempty"`
	UnreadCount    int64           `json:"unreadCount"`
}

// ConversationReadData tells the other side their messages were read.
type ConversationReadData struct {
	ConversationID uint   `json:"conversationId"`
	ReaderID       uint   `json:"readerId"`
	MessageIDs     []uint `json:"messageIds"`
	MarkedCount    int    `json:"markedCount"`
}

// UnreadCountData publishes the authoritative notification unread count.
type UnreadCountData struct {
	Count int64 `json:"count"`
}

// NotificationDeletedData names a removed notification.
type NotificationDeletedData struct {
	ID uint `json:"id"`
}
