package models

import (
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Conversation is a two-party message thread, usually opened from a listing
// page. The participant set is fixed at creation; PairKey is the canonical
// form of the two participant ids and carries the unique index that makes
// starting a conversation idempotent per pair.
type Conversation struct {
	// ID is the numeric identifier clients address the thread by.
	ID uint `gorm:"primaryKey" json:"id"`
	// CreatedAt is set once, on first contact between the pair.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt bumps with every message and orders the inbox.
	UpdatedAt time.Time `json:"updatedAt"`
	// PairKey is "<low>:<high>" over the two participant ids.
	PairKey string `gorm:"size:64;uniqueIndex" json:"-"`
	// ParticipantIDs holds both members; membership never changes.
	ParticipantIDs pq.Int64Array `gorm:"type:bigint[]" json:"participantIds"`
	// ListingID records which listing the conversation started from, if any.
	ListingID *uint `gorm:"index" json:"listingId,omitempty"`
}

// PairKey returns the canonical key for a two-participant conversation,
// identical for either argument order.
func PairKey(a, b uint) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// HasParticipant reports whether the user belongs to the conversation.
func (c *Conversation) HasParticipant(userID uint) bool {
	for _, id := range c.ParticipantIDs {
		if uint(id) == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the member that is not userID. The threads this
// service creates always have exactly two members, so there is exactly one.
func (c *Conversation) OtherParticipant(userID uint) uint {
	for _, id := range c.ParticipantIDs {
		if uint(id) != userID {
			return uint(id)
		}
	}
	return 0
}

// ParticipantList returns the participant ids as uints.
func (c *Conversation) ParticipantList() []uint {
	ids := make([]uint, 0, len(c.ParticipantIDs))
	for _, id := range c.ParticipantIDs {
		ids = append(ids, uint(id))
	}
	return ids
}

// ConversationSummary is the derived inbox view: recomputed from messages
// and read-marks on every request, never stored.
type ConversationSummary struct {
	Conversation Conversation `json:"conversation"`
	OtherUser    PublicUser   `json:"otherUser"`
	LastMessage  *Message     `json:"lastMessage,omitempty"`
	UnreadCount  int64        `json:"unreadCount"`
	OtherOnline  bool         `json:"otherOnline"`
}

// ConversationDetail is the single-thread view returned to participants.
type ConversationDetail struct {
	Conversation Conversation `json:"conversation"`
	Participants []PublicUser `json:"participants"`
}
