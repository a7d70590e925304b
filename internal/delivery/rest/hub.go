package rest

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Hub fans game states out to the websocket clients of each game.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		logger:  logger,
	}
}

// Register subscribes the client to its game. initial is evaluated under the hub lock,
// so no broadcast can slip between the first message and the subscription.
func (h *Hub) Register(c *Client, initial func() any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if data, err := json.Marshal(initial()); err == nil {
		c.send <- data
	} else {
		h.logger.Error("failed to marshal websocket message", zap.Error(err))
	}

	if h.clients[c.gameID] == nil {
		h.clients[c.gameID] = make(map[*Client]struct{})
	}
	h.clients[c.gameID][c] = struct{}{}

	h.logger.Debug("websocket client registered",
		zap.String("game_id", c.gameID),
		zap.Int("clients", len(h.clients[c.gameID])),
	)
}

// Unregister drops the client and closes its send channel. It is safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[c.gameID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}

	delete(clients, c)
	close(c.send)

	if len(clients) == 0 {
		delete(h.clients, c.gameID)
	}

	h.logger.Debug("websocket client unregistered", zap.String("game_id", c.gameID))
}

// Broadcast sends the message to every client of the game. Slow clients miss messages
// rather than block the game.
func (h *Hub) Broadcast(gameID string, msg any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := h.clients[gameID]
	if len(clients) == 0 {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal websocket message", zap.Error(err))
		return
	}

	for c := range clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("websocket client is too slow, message dropped",
				zap.String("game_id", gameID),
			)
		}
	}
}

// CloseGame disconnects every client of the game.
func (h *Hub) CloseGame(gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closeGameLocked(gameID)
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for gameID := range h.clients {
		h.closeGameLocked(gameID)
	}
}

func (h *Hub) closeGameLocked(gameID string) {
	for c := range h.clients[gameID] {
		close(c.send)
	}
	delete(h.clients, gameID)
}

// Count returns the number of clients watching the game.
func (h *Hub) Count(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[gameID])
}
