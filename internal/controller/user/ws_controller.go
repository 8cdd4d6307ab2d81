package user

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/lshigami/examprep/internal/middleware"
	"github.com/lshigami/examprep/internal/ws"
	"github.com/rs/zerolog/log"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the JWT, not the origin, authenticates the socket
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WSController struct {
	hub *ws.Hub
}

func NewWSController(hub *ws.Hub) *WSController {
	return &WSController{hub: hub}
}

// Connect godoc
// @Summary Live XP and level-up events
// @Description Upgrades to a websocket. Messages look like {"type":"xp_gained","data":{...}}.
// @Tags User - Practice
// @Security BearerAuth
// @Param token query string false "JWT, for clients that cannot set headers"
// @Router /ws [get]
func (c *WSController) Connect(ctx *gin.Context) {
	userID := middleware.UserID(ctx)
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Err(err).Uint("userID", userID).Msg("ws: upgrade failed")
		return
	}
	c.hub.Add(userID, conn)
	go c.keepAlive(userID, conn)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	// the client never sends anything meaningful; reading detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	c.hub.Remove(userID, conn)
}

func (c *WSController) keepAlive(userID uint, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for range ticker.C {
		if c.hub.Connections(userID) == 0 {
			return
		}
		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
			c.hub.Remove(userID, conn)
			return
		}
	}
}
