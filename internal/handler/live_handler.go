package handler

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"kaizen-ideas/internal/service/live"
)

type LiveHandler struct {
	hub *live.Hub
	log *zap.Logger
}

func NewLiveHandler(hub *live.Hub, log *zap.Logger) *LiveHandler {
	return &LiveHandler{hub: hub, log: log}
}

func (h *LiveHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Stream writes an ideas_updated text frame for every hub signal until the
// client goes away. Inbound frames are read and discarded so that a close is
// noticed.
func (h *LiveHandler) Stream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		session := h.hub.Register()
		defer h.hub.Unregister(session)

		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-closed:
				return
			case <-session.Signals():
				if err := conn.WriteMessage(websocket.TextMessage, []byte(live.EventIdeasUpdated)); err != nil {
					h.log.Debug("live write failed", zap.Error(err))
					return
				}
			}
		}
	})
}
