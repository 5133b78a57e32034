package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"homechat/backend/internal/api/middleware"
	"homechat/backend/internal/models"
	"homechat/backend/internal/realtime"
	"homechat/backend/internal/storage"
)

type startConversationReq struct {
	RecipientID  uint   `json:"recipientId" binding:"required"`
	ListingID    *uint  `json:"listingId"`
	FirstMessage string `json:"firstMessage" binding:"omitempty,max=5000"`
}

// StartConversation opens (or reopens) the thread between the caller and
// the recipient. Starting the same pair twice returns the existing thread.
// An optional first message is persisted and fanned out in the same
// request.
func (h *Handler) StartConversation(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req startConversationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if req.RecipientID == user.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot start a conversation with yourself"})
		return
	}
	if _, err := h.Storage.GetUserByID(req.RecipientID); err != nil {
		respondError(c, err)
		return
	}

	conv, created, err := h.Storage.GetOrCreateConversation(user.ID, req.RecipientID, req.ListingID)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.FirstMessage != "" {
		msg := &models.Message{
			ConversationID: conv.ID,
			SenderID:       user.ID,
			Kind:           models.MessageKindText,
			Body:           req.FirstMessage,
		}
		if err := h.Storage.CreateMessage(msg); err != nil {
			respondError(c, err)
			return
		}
		h.fanOutMessage(conv, user, msg)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, conv)
}

// ListConversations returns the caller's inbox, optionally narrowed by a
// search term. Summaries are computed fresh on every request and the full
// list always comes back in one response.
func (h *Handler) ListConversations(c *gin.Context) {
	user := middleware.CurrentUser(c)

	summaries, err := h.Storage.ListConversationSummaries(user.ID, c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	for i := range summaries {
		summaries[i].OtherOnline = h.Hub.Registry.IsOnline(summaries[i].OtherUser.ID)
	}
	c.JSON(http.StatusOK, gin.H{"data": summaries})
}

// GetConversation returns one thread with its participants.
func (h *Handler) GetConversation(c *gin.Context) {
	user := middleware.CurrentUser(c)
	conv, ok := h.loadParticipantConversation(c, user)
	if !ok {
		return
	}

	users, err := h.Storage.GetUsersByIDs(conv.ParticipantList())
	if err != nil {
		respondError(c, err)
		return
	}
	participants := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		participants = append(participants, u.Public())
	}
	c.JSON(http.StatusOK, models.ConversationDetail{
		Conversation: *conv,
		Participants: participants,
	})
}

// ListConversationMessages returns a page of the thread's messages,
// newest first.
func (h *Handler) ListConversationMessages(c *gin.Context) {
	user := middleware.CurrentUser(c)
	conv, ok := h.loadParticipantConversation(c, user)
	if !ok {
		return
	}

	offset := intQuery(c, "offset", 0)
	limit := intQuery(c, "limit", 0)
	msgs, err := h.Storage.ListMessages(conv.ID, offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": msgs})
}

type sendMessageReq struct {
	Body string `json:"body" binding:"required,max=5000"`
	Kind string `json:"kind" binding:"omitempty,oneof=text listing_card"`
}

// SendMessage persists a message to the thread and fans it out to every
// participant's connections.
func (h *Handler) SendMessage(c *gin.Context) {
	user := middleware.CurrentUser(c)
	conv, ok := h.loadParticipantConversation(c, user)
	if !ok {
		return
	}

	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if req.Kind == "" {
		req.Kind = models.MessageKindText
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       user.ID,
		Kind:           req.Kind,
		Body:           req.Body,
	}
	if err := h.Storage.CreateMessage(msg); err != nil {
		respondError(c, err)
		return
	}

	h.fanOutMessage(conv, user, msg)
	c.JSON(http.StatusCreated, gin.H{"data": msg})
}

// MarkConversationRead marks everything unread in the thread as read by
// the caller. The other side learns about it over their connections, and
// the caller's message notifications for this thread clear in the same
// motion. Calling it again marks nothing and stays silent.
func (h *Handler) MarkConversationRead(c *gin.Context) {
	user := middleware.CurrentUser(c)
	conv, ok := h.loadParticipantConversation(c, user)
	if !ok {
		return
	}

	markedIDs, err := h.Storage.MarkConversationRead(conv.ID, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	if len(markedIDs) > 0 {
		others := make([]uint, 0, 1)
		for _, id := range conv.ParticipantList() {
			if id != user.ID {
				others = append(others, id)
			}
		}
		h.Hub.Registry.SendToUsers(others, realtime.Event{
			Event: realtime.EventConversationRead,
			Data: realtime.ConversationReadData{
				ConversationID: conv.ID,
				ReaderID:       user.ID,
				MessageIDs:     markedIDs,
				MarkedCount:    len(markedIDs),
			},
		})
	}

	if err := h.Notifications.ClearConversation(user.ID, conv.ID); err != nil {
		log.Printf("ERROR: Failed to clear notifications for conversation %d: %v", conv.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"markedCount": len(markedIDs),
		"messageIds":  markedIDs,
	})
}

// SetTyping refreshes the caller's typing indicator for the thread.
func (h *Handler) SetTyping(c *gin.Context) {
	user := middleware.CurrentUser(c)
	conv, ok := h.loadParticipantConversation(c, user)
	if !ok {
		return
	}
	if err := h.Storage.SetTyping(conv.ID, user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListTyping reports which other participants are typing right now.
func (h *Handler) ListTyping(c *gin.Context) {
	user := middleware.CurrentUser(c)
	conv, ok := h.loadParticipantConversation(c, user)
	if !ok {
		return
	}

	typing, err := h.Storage.GetTypingUserIDs(conv.ID, conv.ParticipantList())
	if err != nil {
		respondError(c, err)
		return
	}
	others := make([]uint, 0, len(typing))
	for _, id := range typing {
		if id != user.ID {
			others = append(others, id)
		}
	}
	c.JSON(http.StatusOK, gin.H{"typing": others})
}

// loadParticipantConversation loads the conversation in the id path
// parameter and confirms the caller participates in it. A thread that
// exists but does not include the caller answers exactly like a missing
// one.
func (h *Handler) loadParticipantConversation(c *gin.Context, user *models.User) (*models.Conversation, bool) {
	convID, ok := uintParam(c, "id")
	if !ok {
		return nil, false
	}
	conv, err := h.Storage.GetConversationByID(convID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if !conv.HasParticipant(user.ID) {
		respondError(c, storage.ErrNotFound)
		return nil, false
	}
	return conv, true
}

// fanOutMessage pushes a persisted message to everyone who should see it:
// the conversation-message event to the whole thread, a per-recipient
// inbox refresh with that recipient's own unread count, and a message
// notification for everyone but the sender. Push problems are logged and
// never unwind the persisted message.
func (h *Handler) fanOutMessage(conv *models.Conversation, sender *models.User, msg *models.Message) {
	participants := conv.ParticipantList()

	h.Hub.BroadcastToConversation(conv.ID, participants, realtime.Event{
		Event: realtime.EventConversationMessage,
		Data: realtime.ConversationMessageData{
			ConversationID: conv.ID,
			Message:        *msg,
			SenderID:       sender.ID,
		},
	})

	for _, userID := range participants {
		unread, err := h.Storage.CountUnreadMessages(conv.ID, userID)
		if err != nil {
			log.Printf("ERROR: Failed to count unread messages for user %d: %v", userID, err)
			continue
		}
		h.Hub.Registry.SendToUser(userID, realtime.Event{
			Event: realtime.EventConversationUpdated,
			Data: realtime.ConversationUpdatedData{
				ConversationID: conv.ID,
				LastMessage:    msg,
				UnreadCount:    unread,
			},
		})
	}

	for _, userID := range participants {
		if userID == sender.ID {
			continue
		}
		if err := h.Notifications.NotifyNewMessage(sender, msg, userID); err != nil {
			log.Printf("ERROR: Failed to create message notification for user %d: %v", userID, err)
		}
	}
}
