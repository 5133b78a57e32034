package storage

import (
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"homechat/backend/internal/models"
)

// CreateMessage persists a message and bumps the parent conversation's
// updated_at to the message time, in one transaction, so the inbox ordering
// can never disagree with the stored messages.
func (s *Service) CreateMessage(msg *models.Message) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			log.Printf("ERROR: Failed to save message for conversation %d: %v", msg.ConversationID, err)
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("updated_at", msg.CreatedAt).Error
	})
}

// ListMessages returns a page of the conversation's messages, newest
// first. Paging values are clamped to the configured bounds.
func (s *Service) ListMessages(conversationID uint, offset, limit int) ([]models.Message, error) {
	offset, limit = NormalizePage(offset, limit)
	var msgs []models.Message
	err := s.DB.Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		log.Printf("ERROR: Failed to list messages for conversation %d: %v", conversationID, err)
		return nil, err
	}
	return msgs, nil
}

// CountUnreadMessages counts the messages in the conversation that were
// sent by someone else and that the user has no read mark for. This is the
// authoritative unread number; nothing increments a stored counter.
func (s *Service) CountUnreadMessages(conversationID, userID uint) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Message{}).
		Where("conversation_id = ?", conversationID).
		Where("sender_id <> ?", userID).
		Where("NOT EXISTS (SELECT 1 FROM message_reads r WHERE r.message_id = messages.id AND r.user_id = ?)", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// MarkConversationRead records a read mark for every message in the
// conversation the user has not read yet and returns their ids. Messages
// the user sent are never marked. Calling it again with nothing unread
// returns an empty slice; concurrent calls tolerate each other through
// the conflict clause.
func (s *Service) MarkConversationRead(conversationID, userID uint) ([]uint, error) {
	var unreadIDs []uint
	err := s.DB.Model(&models.Message{}).
		Where("conversation_id = ?", conversationID).
		Where("sender_id <> ?", userID).
		Where("NOT EXISTS (SELECT 1 FROM message_reads r WHERE r.message_id = messages.id AND r.user_id = ?)", userID).
		Pluck("id", &unreadIDs).Error
	if err != nil {
		log.Printf("ERROR: Failed to find unread messages in conversation %d: %v", conversationID, err)
		return nil, err
	}
	if len(unreadIDs) == 0 {
		return []uint{}, nil
	}

	now := time.Now()
	reads := make([]models.MessageRead, 0, len(unreadIDs))
	for _, id := range unreadIDs {
		reads = append(reads, models.MessageRead{
			MessageID:      id,
			UserID:         userID,
			ConversationID: conversationID,
			ReadAt:         now,
		})
	}
	err = s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&reads).Error
	if err != nil {
		log.Printf("ERROR: Failed to save read marks for conversation %d: %v", conversationID, err)
		return nil, err
	}
	return unreadIDs, nil
}
