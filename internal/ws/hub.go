package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Conn is the part of *websocket.Conn the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub fans events out to every open connection of a user.
type Hub struct {
	mu    sync.Mutex
	users map[uint]map[Conn]bool
}

func NewHub() *Hub {
	return &Hub{users: make(map[uint]map[Conn]bool)}
}

func (h *Hub) Add(userID uint, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.users[userID] == nil {
		h.users[userID] = make(map[Conn]bool)
	}
	h.users[userID][conn] = true
	log.Debug().Uint("userID", userID).Int("connections", len(h.users[userID])).Msg("ws: client connected")
}

func (h *Hub) Remove(userID uint, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(userID, conn)
}

func (h *Hub) removeLocked(userID uint, conn Conn) {
	conns, ok := h.users[userID]
	if !ok || !conns[conn] {
		return
	}
	delete(conns, conn)
	conn.Close()
	if len(conns) == 0 {
		delete(h.users, userID)
	}
	log.Debug().Uint("userID", userID).Msg("ws: client disconnected")
}

// Connections reports how many sockets a user has open.
func (h *Hub) Connections(userID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.users[userID])
}

// NotifyUser sends one event to all of the user's connections. Connections that fail to
// accept the write are dropped.
func (h *Hub) NotifyUser(userID uint, event string, payload interface{}) {
	data, err := json.Marshal(Message{Type: event, Data: payload})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("ws: marshal error")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.users[userID] {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Warn().Err(err).Uint("userID", userID).Msg("ws: write error")
			h.removeLocked(userID, conn)
		}
	}
}
