package storage

import (
	"errors"
	"log"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"homechat/backend/internal/models"
)

// GetOrCreateConversation returns the conversation between the two users,
// creating it on first contact. The boolean reports whether a new thread
// was created. Two racing first-contact requests converge on one row via
// the unique pair key.
func (s *Service) GetOrCreateConversation(userID, otherID uint, listingID *uint) (*models.Conversation, bool, error) {
	pairKey := models.PairKey(userID, otherID)

	var conv models.Conversation
	err := s.DB.Where("pair_key = ?", pairKey).First(&conv).Error
	if err == nil {
		return &conv, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	conv = models.Conversation{
		PairKey:        pairKey,
		ParticipantIDs: pq.Int64Array{int64(userID), int64(otherID)},
		ListingID:      listingID,
	}
	if err := s.DB.Create(&conv).Error; err != nil {
		// Lost a race against the other participant's first message.
		// The row exists now, fetch it.
		var existing models.Conversation
		if ferr := s.DB.Where("pair_key = ?", pairKey).First(&existing).Error; ferr == nil {
			return &existing, false, nil
		}
		log.Printf("ERROR: Failed to create conversation for pair %s: %v", pairKey, err)
		return nil, false, err
	}
	return &conv, true, nil
}

// GetConversationByID loads a conversation by primary key.
func (s *Service) GetConversationByID(id uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.DB.First(&conv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListConversationSummaries builds the inbox view for a user: every
// conversation they participate in, newest activity first, each with the
// other participant, the last message and the caller's unread count. The
// view is recomputed from messages and read marks on every call.
//
// A non-empty search narrows the list to conversations where the other
// participant's name or email, or any message body, contains the term
// (case-insensitive).
func (s *Service) ListConversationSummaries(userID uint, search string) ([]models.ConversationSummary, error) {
	var convs []models.Conversation
	err := s.DB.Where("participant_ids @> ?", pq.Int64Array{int64(userID)}).
		Order("updated_at DESC").
		Find(&convs).Error
	if err != nil {
		log.Printf("ERROR: Failed to list conversations for user %d: %v", userID, err)
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(convs))
	if len(convs) == 0 {
		return summaries, nil
	}

	otherIDs := make([]uint, 0, len(convs))
	convIDs := make([]uint, 0, len(convs))
	for _, c := range convs {
		otherIDs = append(otherIDs, c.OtherParticipant(userID))
		convIDs = append(convIDs, c.ID)
	}
	others, err := s.usersByID(otherIDs)
	if err != nil {
		return nil, err
	}

	var bodyMatches map[uint]bool
	if search != "" {
		bodyMatches, err = s.conversationsMatchingBody(convIDs, search)
		if err != nil {
			return nil, err
		}
	}

	term := strings.ToLower(search)
	for _, c := range convs {
		other, ok := others[c.OtherParticipant(userID)]
		if !ok {
			// The other account was deleted; the thread stays hidden.
			continue
		}
		if search != "" && !summaryMatches(other, bodyMatches[c.ID], term) {
			continue
		}

		last, err := s.lastMessage(c.ID)
		if err != nil {
			return nil, err
		}
		unread, err := s.CountUnreadMessages(c.ID, userID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, models.ConversationSummary{
			Conversation: c,
			OtherUser:    other.Public(),
			LastMessage:  last,
			UnreadCount:  unread,
		})
	}
	return summaries, nil
}

func (s *Service) usersByID(ids []uint) (map[uint]models.User, error) {
	users, err := s.GetUsersByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

// conversationsMatchingBody returns the set of conversation ids that have
// at least one message whose body contains the term.
func (s *Service) conversationsMatchingBody(convIDs []uint, term string) (map[uint]bool, error) {
	var ids []uint
	err := s.DB.Model(&models.Message{}).
		Where("conversation_id IN ?", convIDs).
		Where("body ILIKE ?", "%"+term+"%").
		Distinct().
		Pluck("conversation_id", &ids).Error
	if err != nil {
		return nil, err
	}
	matches := make(map[uint]bool, len(ids))
	for _, id := range ids {
		matches[id] = true
	}
	return matches, nil
}

func summaryMatches(other models.User, bodyMatch bool, term string) bool {
	if bodyMatch {
		return true
	}
	if strings.Contains(strings.ToLower(other.FullName()), term) {
		return true
	}
	return strings.Contains(strings.ToLower(other.Email), term)
}

func (s *Service) lastMessage(conversationID uint) (*models.Message, error) {
	var msg models.Message
	err := s.DB.Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
