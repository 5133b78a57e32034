package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homechat/backend/internal/api/middleware"
	"homechat/backend/internal/models"
)

// ListNotifications returns a page of the caller's notifications, newest
// first. ?unread=true narrows to unread ones.
func (h *Handler) ListNotifications(c *gin.Context) {
	user := middleware.CurrentUser(c)

	onlyUnread := c.Query("unread") == "true"
	offset := intQuery(c, "offset", 0)
	limit := intQuery(c, "limit", 0)

	ns, err := h.Storage.ListNotifications(user.ID, onlyUnread, offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ns})
}

// UnreadNotificationCount returns the caller's authoritative unread count,
// computed fresh from the store.
func (h *Handler) UnreadNotificationCount(c *gin.Context) {
	user := middleware.CurrentUser(c)

	count, err := h.Storage.CountUnreadNotifications(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkNotificationRead marks one notification read. Repeating the call
// keeps the original read time.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	n, err := h.Notifications.MarkRead(id, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// MarkAllNotificationsRead marks everything unread and reports how many
// rows changed.
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	user := middleware.CurrentUser(c)

	updated, err := h.Notifications.MarkAllRead(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// UpdateNotification applies a partial update to one of the caller's
// notifications.
func (h *Handler) UpdateNotification(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var update models.NotificationUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	n, err := h.Notifications.Update(id, user.ID, update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// DeleteNotification removes one of the caller's notifications.
func (h *Handler) DeleteNotification(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.Notifications.Delete(id, user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type bulkNotificationsReq struct {
	Action string `json:"action" binding:"required,oneof=markRead markUnread delete"`
	IDs    []uint `json:"ids" binding:"required,min=1"`
}

// BulkNotifications applies one action to a set of the caller's
// notifications. Ids that are not theirs are skipped silently.
func (h *Handler) BulkNotifications(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req bulkNotificationsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	affected, err := h.Notifications.Bulk(user.ID, req.IDs, req.Action)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"affected": affected})
}

// GetNotificationPreferences returns the caller's delivery toggles,
// creating the all-on defaults on first access.
func (h *Handler) GetNotificationPreferences(c *gin.Context) {
	user := middleware.CurrentUser(c)

	pref, err := h.Storage.GetOrCreatePreferences(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pref)
}

// UpdateNotificationPreferences applies toggle changes. Keys are accepted
// in both snake_case and camelCase; an unknown key refuses the whole
// update.
func (h *Handler) UpdateNotificationPreferences(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var changes map[string]bool
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if len(changes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no changes supplied"})
		return
	}

	pref, err := h.Storage.UpdatePreferences(user.ID, changes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pref)
}
