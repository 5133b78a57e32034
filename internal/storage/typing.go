package storage

import (
	"fmt"

	"homechat/backend/internal/config"
)

// Typing indicator: a short-lived key per user per conversation. The key
// expires on its own, so a client that stops typing without saying so
// disappears from the indicator within the TTL.

func typingKey(conversationID, userID uint) string {
	return fmt.Sprintf("typing:conv:%d:user:%d", conversationID, userID)
}

// SetTyping refreshes the user's typing key for the conversation.
func (s *Service) SetTyping(conversationID, userID uint) error {
	return s.Redis.Set(s.Ctx, typingKey(conversationID, userID), "1", config.TypingTTL).Err()
}

// GetTypingUserIDs checks each participant's typing key and returns the
// ids with a live one.
func (s *Service) GetTypingUserIDs(conversationID uint, participantIDs []uint) ([]uint, error) {
	typing := []uint{}
	for _, id := range participantIDs {
		val, err := s.Redis.Get(s.Ctx, typingKey(conversationID, id)).Result()
		if err == nil && val == "1" {
			typing = append(typing, id)
		}
	}
	return typing, nil
}
