// Package notify is the notification fan-out engine. Every notification
// mutation goes through here so the persisted record, the socket push and
// the recomputed unread counter stay in step.
package notify

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"

	"homechat/backend/internal/models"
	"homechat/backend/internal/realtime"
	"homechat/backend/internal/storage"
)

// Service creates and mutates notifications, pushes them to the
// recipient's live connections and republishes the authoritative unread
// count after every change. Pushes never fail the persistence they follow.
type Service struct {
	Storage    storage.Storage
	Registry   *realtime.Registry
	Dispatcher Dispatcher

	validate *validator.Validate
}

func NewNotificationService(s storage.Storage, registry *realtime.Registry, d Dispatcher) *Service {
	return &Service{
		Storage:    s,
		Registry:   registry,
		Dispatcher: d,
		validate:   validator.New(),
	}
}

// CreateNotificationInput is everything a producer supplies for a new
// notification. Type and priority are closed sets; validation runs before
// anything is written.
type CreateNotificationInput struct {
	RecipientID uint                   `json:"recipientId" validate:"required"`
	Title       string                 `json:"title" validate:"required,max=120"`
	Message     string                 `json:"message" validate:"required,max=500"`
	Type        string                 `json:"type" validate:"required,oneof=message booking review system"`
	Priority    string                 `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	RefType     string                 `json:"refType" validate:"omitempty,max=32"`
	RefID       uint                   `json:"refId"`
	ActionURL   string                 `json:"actionUrl" validate:"omitempty,max=255"`
	ActionText  string                 `json:"actionText" validate:"omitempty,max=64"`
	Extra       map[string]interface{} `json:"extra"`
}

// Create validates the input, persists the notification, then delivers it:
// a notification-created push to the recipient's connections followed by a
// fresh unread count, and an out-of-band dispatch, each gated by the
// recipient's preferences. Preferences gate delivery only; the record is
// persisted either way.
func (s *Service) Create(input CreateNotificationInput) (*models.Notification, error) {
	if input.Priority == "" {
		input.Priority = models.NotificationPriorityNormal
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrInvalidInput, err)
	}

	n := &models.Notification{
		RecipientID: input.RecipientID,
		Type:        input.Type,
		Priority:    input.Priority,
		Title:       input.Title,
		Message:     input.Message,
		RefType:     input.RefType,
		RefID:       input.RefID,
		ActionURL:   input.ActionURL,
		ActionText:  input.ActionText,
	}
	if input.Extra != nil {
		raw, err := json.Marshal(input.Extra)
		if err != nil {
			return nil, fmt.Errorf("%w: extra is not serializable", storage.ErrInvalidInput)
		}
		n.Extra = datatypes.JSON(raw)
	}

	if err := s.Storage.CreateNotification(n); err != nil {
		return nil, err
	}

	pref, err := s.Storage.GetOrCreatePreferences(input.RecipientID)
	if err != nil {
		log.Printf("ERROR: Failed to load preferences for user %d, delivering anyway: %v", input.RecipientID, err)
		def := models.DefaultNotificationPreference(input.RecipientID)
		pref = &def
	}

	if pref.AllowsPush(n.Type) {
		s.Registry.SendToUser(n.RecipientID, realtime.Event{
			Event: realtime.EventNotificationCreated,
			Data:  n,
		})
		s.PushUnreadCount(n.RecipientID)
	}
	if pref.AllowsEmail(n.Type) {
		go s.dispatch(n)
	}
	return n, nil
}

// dispatch hands the notification to the out-of-band dispatcher. Runs in
// its own goroutine; failures are logged and go no further.
func (s *Service) dispatch(n *models.Notification) {
	user, err := s.Storage.GetUserByID(n.RecipientID)
	if err != nil {
		log.Printf("ERROR: Cannot dispatch notification %d, recipient %d unavailable: %v", n.ID, n.RecipientID, err)
		return
	}
	if err := s.Dispatcher.Dispatch(user, n); err != nil {
		log.Printf("ERROR: Dispatch of notification %d to user %d failed: %v", n.ID, n.RecipientID, err)
	}
}

// PushUnreadCount recomputes the recipient's unread count and pushes it to
// their connections. The count is always a fresh query; nothing ever
// increments a cached value, so missed events cannot make it drift.
func (s *Service) PushUnreadCount(userID uint) {
	count, err := s.Storage.CountUnreadNotifications(userID)
	if err != nil {
		log.Printf("ERROR: Failed to count unread notifications for user %d: %v", userID, err)
		return
	}
	s.Registry.SendToUser(userID, realtime.Event{
		Event: realtime.EventNotificationUnreadCount,
		Data:  realtime.UnreadCountData{Count: count},
	})
}

// MarkRead marks one notification read and pushes the updated record plus
// the new count. Marking twice keeps the first read time.
func (s *Service) MarkRead(id, recipientID uint) (*models.Notification, error) {
	n, err := s.Storage.MarkNotificationRead(id, recipientID)
	if err != nil {
		return nil, err
	}
	s.pushUpdated(n)
	return n, nil
}

// MarkAllRead marks every unread notification of the recipient and returns
// how many changed.
func (s *Service) MarkAllRead(recipientID uint) (int64, error) {
	affected, err := s.Storage.MarkAllNotificationsRead(recipientID)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		s.PushUnreadCount(recipientID)
	}
	return affected, nil
}

// Update applies a partial update to a notification the recipient owns.
func (s *Service) Update(id, recipientID uint, update models.NotificationUpdate) (*models.Notification, error) {
	n, err := s.Storage.UpdateNotification(id, recipientID, update)
	if err != nil {
		return nil, err
	}
	s.pushUpdated(n)
	return n, nil
}

// Delete removes a notification the recipient owns and pushes the removal
// and the new count.
func (s *Service) Delete(id, recipientID uint) error {
	if err := s.Storage.DeleteNotification(id, recipientID); err != nil {
		return err
	}
	s.Registry.SendToUser(recipientID, realtime.Event{
		Event: realtime.EventNotificationDeleted,
		Data:  realtime.NotificationDeletedData{ID: id},
	})
	s.PushUnreadCount(recipientID)
	return nil
}

// Bulk applies one action to a set of the recipient's notifications.
func (s *Service) Bulk(recipientID uint, ids []uint, action string) (int64, error) {
	affected, err := s.Storage.BulkUpdateNotifications(recipientID, ids, action)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		s.PushUnreadCount(recipientID)
	}
	return affected, nil
}

// NotifyNewMessage creates the in-app notification for a message that just
// landed in a conversation. One call per recipient; the sender never
// notifies themselves.
func (s *Service) NotifyNewMessage(sender *models.User, msg *models.Message, recipientID uint) error {
	body := preview(msg.Body, 120)
	if msg.Kind == models.MessageKindListing {
		body = "Shared a listing with you"
	}
	_, err := s.Create(CreateNotificationInput{
		RecipientID: recipientID,
		Type:        models.NotificationTypeMessage,
		Title:       "New message from " + sender.FullName(),
		Message:     body,
		RefType:     models.RefTypeConversation,
		RefID:       msg.ConversationID,
		ActionURL:   fmt.Sprintf("/conversations/%d", msg.ConversationID),
		ActionText:  "Reply",
		Extra: map[string]interface{}{
			"conversationId": msg.ConversationID,
			"messageId":      msg.ID,
		},
	})
	return err
}

// ClearConversation marks the user's message notifications for a
// conversation read, typically because they just read the thread itself,
// and republishes the count if anything changed.
func (s *Service) ClearConversation(userID, conversationID uint) error {
	cleared, err := s.Storage.MarkConversationNotificationsRead(userID, conversationID)
	if err != nil {
		return err
	}
	if cleared > 0 {
		s.PushUnreadCount(userID)
	}
	return nil
}

func (s *Service) pushUpdated(n *models.Notification) {
	s.Registry.SendToUser(n.RecipientID, realtime.Event{
		Event: realtime.EventNotificationUpdated,
		Data:  n,
	})
	s.PushUnreadCount(n.RecipientID)
}

// preview shortens a message body for the notification line.
func preview(body string, max int) string {
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	return string(runes[:max-3]) + "..."
}
