package storage

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"homechat/backend/internal/models"
)

// CreateNotification persists a notification row. Validation of type and
// priority happens in the notification service before this is called.
func (s *Service) CreateNotification(n *models.Notification) error {
	if err := s.DB.Create(n).Error; err != nil {
		log.Printf("ERROR: Failed to save notification for user %d: %v", n.RecipientID, err)
		return err
	}
	return nil
}

// GetNotification loads a notification owned by recipientID. A notification
// owned by anyone else resolves to ErrNotFound, same as a missing one.
func (s *Service) GetNotification(id, recipientID uint) (*models.Notification, error) {
	var n models.Notification
	err := s.DB.Where("id = ? AND recipient_id = ?", id, recipientID).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListNotifications returns a page of the recipient's notifications, newest
// first, optionally narrowed to unread ones.
func (s *Service) ListNotifications(recipientID uint, onlyUnread bool, offset, limit int) ([]models.Notification, error) {
	offset, limit = NormalizePage(offset, limit)
	q := s.DB.Where("recipient_id = ?", recipientID)
	if onlyUnread {
		q = q.Where("is_read = ?", false)
	}
	var ns []models.Notification
	err := q.Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&ns).Error
	if err != nil {
		log.Printf("ERROR: Failed to list notifications for user %d: %v", recipientID, err)
		return nil, err
	}
	return ns, nil
}

// MarkNotificationRead sets the read flag and timestamp on a notification.
// Marking an already-read notification changes nothing, so the original
// read time survives repeated calls.
func (s *Service) MarkNotificationRead(id, recipientID uint) (*models.Notification, error) {
	n, err := s.GetNotification(id, recipientID)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}

	now := time.Now()
	err = s.DB.Model(n).Updates(map[string]interface{}{
		"is_read": true,
		"read_at": now,
	}).Error
	if err != nil {
		return nil, err
	}
	n.IsRead = true
	n.ReadAt = &now
	return n, nil
}

// MarkAllNotificationsRead marks every unread notification of the recipient
// and returns how many rows changed.
func (s *Service) MarkAllNotificationsRead(recipientID uint) (int64, error) {
	now := time.Now()
	result := s.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		})
	if result.Error != nil {
		log.Printf("ERROR: Failed to mark all notifications read for user %d: %v", recipientID, result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// UpdateNotification applies a partial update to a notification the
// recipient owns. Setting read toggles the timestamp the same way
// MarkNotificationRead does; clearing it removes the timestamp.
func (s *Service) UpdateNotification(id, recipientID uint, update models.NotificationUpdate) (*models.Notification, error) {
	n, err := s.GetNotification(id, recipientID)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if update.Title != nil {
		changes["title"] = *update.Title
	}
	if update.Message != nil {
		changes["message"] = *update.Message
	}
	if update.Priority != nil {
		if !models.IsValidNotificationPriority(*update.Priority) {
			return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *update.Priority)
		}
		changes["priority"] = *update.Priority
	}
	if update.ActionURL != nil {
		changes["action_url"] = *update.ActionURL
	}
	if update.ActionText != nil {
		changes["action_text"] = *update.ActionText
	}
	if update.Read != nil {
		if *update.Read {
			changes["is_read"] = true
			if !n.IsRead {
				changes["read_at"] = time.Now()
			}
		} else {
			changes["is_read"] = false
			changes["read_at"] = nil
		}
	}
	if len(changes) == 0 {
		return n, nil
	}

	if err := s.DB.Model(n).Updates(changes).Error; err != nil {
		log.Printf("ERROR: Failed to update notification %d: %v", id, err)
		return nil, err
	}
	return s.GetNotification(id, recipientID)
}

// DeleteNotification removes a notification the recipient owns.
func (s *Service) DeleteNotification(id, recipientID uint) error {
	result := s.DB.Where("id = ? AND recipient_id = ?", id, recipientID).
		Delete(&models.Notification{})
	if result.Error != nil {
		log.Printf("ERROR: Failed to delete notification %d: %v", id, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// BulkUpdateNotifications applies one action to a set of the recipient's
// notifications. Ids owned by someone else are silently skipped by the
// ownership filter. Returns how many rows changed.
func (s *Service) BulkUpdateNotifications(recipientID uint, ids []uint, action string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	scope := s.DB.Where("recipient_id = ? AND id IN ?", recipientID, ids)

	var result *gorm.DB
	switch action {
	case models.BulkActionMarkRead:
		result = scope.Model(&models.Notification{}).
			Where("is_read = ?", false).
			Updates(map[string]interface{}{
				"is_read": true,
				"read_at": time.Now(),
			})
	case models.BulkActionMarkUnread:
		result = scope.Model(&models.Notification{}).
			Updates(map[string]interface{}{
				"is_read": false,
				"read_at": nil,
			})
	case models.BulkActionDelete:
		result = scope.Delete(&models.Notification{})
	default:
		return 0, fmt.Errorf("%w: unknown bulk action %q", ErrInvalidInput, action)
	}

	if result.Error != nil {
		log.Printf("ERROR: Bulk notification %s failed for user %d: %v", action, recipientID, result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountUnreadNotifications returns the recipient's live unread count. Every
// published counter value comes from this query.
func (s *Service) CountUnreadNotifications(recipientID uint) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// MarkConversationNotificationsRead marks the recipient's unread message
// notifications that point at the given conversation. Reading a thread
// clears its notifications in the same motion.
func (s *Service) MarkConversationNotificationsRead(recipientID, conversationID uint) (int64, error) {
	result := s.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND type = ? AND ref_type = ? AND ref_id = ? AND is_read = ?",
			recipientID, models.NotificationTypeMessage, models.RefTypeConversation, conversationID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	if result.Error != nil {
		log.Printf("ERROR: Failed to clear conversation %d notifications for user %d: %v",
			conversationID, recipientID, result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
