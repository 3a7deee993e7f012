package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/captiveportal/portal-cms/internal/broadcast"
	"github.com/captiveportal/portal-cms/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Portal and admin are served from arbitrary captive-portal hostnames.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request and attaches the connection to hub.
func ServeWS(hub *broadcast.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warnf("websocket upgrade: %v", err)
			return
		}
		cl := hub.Attach(conn)
		logger.Debugf("push client %d connected from %s", cl.ID(), c.ClientIP())
	}
}

// UpgradeOr serves websocket upgrades on a path that otherwise belongs to next.
func UpgradeOr(hub *broadcast.Hub, next gin.HandlerFunc) gin.HandlerFunc {
	ws := ServeWS(hub)
	return func(c *gin.Context) {
		if websocket.IsWebSocketUpgrade(c.Request) {
			ws(c)
			return
		}
		next(c)
	}
}
