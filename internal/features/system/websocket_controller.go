package system

import (
	sync_feature "plm-connector/internal/features/sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// WebSocketController streams every finished sync result to connected clients.
type WebSocketController struct {
	Hub    *sync_feature.Hub
	Logger *zap.Logger
}

func NewWebSocketController(hub *sync_feature.Hub, logger *zap.Logger) *WebSocketController {
	return &WebSocketController{Hub: hub, Logger: logger}
}

func (h *WebSocketController) HandleSyncFeed(c *websocket.Conn) {
	results, cancel := h.Hub.Subscribe()
	defer cancel()

	// The feed is one-way; reading only detects the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.Logger.Debug("Sync feed client connected", zap.Int("subscribers", h.Hub.Subscribers()))
	for {
		select {
		case <-closed:
			return
		case result, ok := <-results:
			if !ok {
				return
			}
			if err := c.WriteJSON(result); err != nil {
				h.Logger.Debug("Sync feed write failed", zap.Error(err))
				return
			}
		}
	}
}
