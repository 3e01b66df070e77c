package handlers

import (
	"github.com/apolloncare/cs618-project/pkg/jwt"
	"github.com/apolloncare/cs618-project/pkg/realtime"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

type (
	RealtimeHandler interface {
		Upgrade(c *fiber.Ctx) error
		Serve() fiber.Handler
	}

	realtimeHandler struct {
		hub        *realtime.Hub
		jwtService jwt.JWTService
	}
)

func NewRealtimeHandler(hub *realtime.Hub, jwtService jwt.JWTService) RealtimeHandler {
	return &realtimeHandler{
		hub:        hub,
		jwtService: jwtService,
	}
}

// Upgrade gates the websocket route. A bearer token may be presented as the
// `token` query parameter; an invalid token downgrades to a guest connection
// rather than rejecting the upgrade.
func (h *realtimeHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	if token := c.Query("token"); token != "" {
		userID, _, err := h.jwtService.GetUserIDByToken(token)
		if err != nil {
			log.Warnf("websocket auth failed, continuing as guest: %v", err)
		} else {
			c.Locals("user_id", userID)
		}
	}

	return c.Next()
}

func (h *realtimeHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("user_id").(string)

		client := &realtime.Client{UserID: userID, Conn: conn}
		h.hub.Register(client)
		defer h.hub.Unregister(client)

		// Read loop exists only to detect client close.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
