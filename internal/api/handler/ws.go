package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"homechat/backend/internal/auth"
	"homechat/backend/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is enforced by the CORS layer in front of this.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS authenticates the handshake and upgrades it to a websocket. The
// credential is checked before the upgrade, so a bad token is refused as
// plain HTTP and no connection state is ever created for it.
func (h *Handler) ServeWS(c *gin.Context) {
	user, err := auth.Authenticate(c.Request, h.JWTSecret, h.Storage)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := realtime.NewWebSocketClient(conn, h.Hub, user.ID, user.Role)
	h.Hub.Register(client)
	client.Run()
}
