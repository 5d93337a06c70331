package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"pitchwise/internal/logger"
	"pitchwise/internal/middleware"
)

// SocketServer takes ownership of an upgraded WebSocket until it disconnects.
type SocketServer interface {
	Serve(ws *websocket.Conn)
}

// WSHandler upgrades realtime clients.
type WSHandler struct {
	hub      SocketServer
	upgrader websocket.Upgrader
	log      logger.Logger
}

// NewWSHandler creates a new WSHandler accepting browser origins listed in allowedOrigins.
func NewWSHandler(hub SocketServer, allowedOrigins []string, log logger.Logger) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || middleware.OriginAllowed(allowedOrigins, origin)
			},
		},
		log: log,
	}
}

// Connect handles GET /ws
func (h *WSHandler) Connect(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.log.Warn("websocket upgrade failed", map[string]interface{}{
			"origin": c.GetHeader("Origin"),
			"error":  err.Error(),
		})
		return
	}
	h.hub.Serve(ws)
}
