package websocket

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type ChatHandler struct {
	hub  *Hub
	ask  AskFunc
	auth fiber.Handler
}

func NewChatHandler(hub *Hub, ask AskFunc, auth fiber.Handler) *ChatHandler {
	return &ChatHandler{hub: hub, ask: ask, auth: auth}
}

// RegisterRoutes mounts GET /chat/v1/ws. Browsers cannot set headers on an
// upgrade, so the token may also arrive as ?token=.
func (h *ChatHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/chat/v1/ws", h.auth, func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}
		return ctx.Next()
	}, websocket.New(func(c *websocket.Conn) {
		userID, err := uuid.Parse(c.Locals("user_id").(string))
		if err != nil {
			c.Close()
			return
		}
		ServeWs(h.hub, c, userID, h.ask)
	}))
}

// ServeWs handles websocket requests from the peer.
func ServeWs(hub *Hub, c *websocket.Conn, userID uuid.UUID, ask AskFunc) {
	client := &Client{Hub: hub, Conn: c, UserID: userID, Send: make(chan []byte, 256), ask: ask}
	if !hub.join(client) {
		c.Close()
		return
	}

	go client.writePump()
	// the handler must not return while the socket is in use
	client.readPump(context.Background())
}

