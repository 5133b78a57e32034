package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"homechat/backend/internal/notify"
	"homechat/backend/internal/realtime"
	"homechat/backend/internal/storage"
)

// Handler carries the dependencies every route needs.
type Handler struct {
	Hub           *realtime.Hub
	Storage       storage.Storage
	Notifications *notify.Service
	JWTSecret     string
}

func NewHandler(hub *realtime.Hub, s storage.Storage, n *notify.Service, jwtSecret string) *Handler {
	return &Handler{
		Hub:           hub,
		Storage:       s,
		Notifications: n,
		JWTSecret:     jwtSecret,
	}
}

// uintParam reads a numeric path parameter. The second return is false
// when the parameter is missing or malformed, after a 400 was written.
func uintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(v), true
}

// intQuery reads an integer query parameter, falling back when absent or
// malformed.
func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// respondError maps storage errors onto HTTP statuses. Unknown errors are
// logged and come back as a plain 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, storage.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("ERROR: %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
