package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"neomind-chat-be/internal/dto"
	"neomind-chat-be/internal/pkg/serverutils"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait       = 10 * time.Second
	defaultPongWait = 60 * time.Second
	maxMessageSize  = 16 * 1024
)

// AskFunc runs one chat turn for the user.
type AskFunc func(ctx context.Context, userID uuid.UUID, prompt string) (*dto.AskResponse, error)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	Conn *websocket.Conn

	UserID uuid.UUID

	// Buffered channel of outbound frames.
	Send chan []byte

	ask AskFunc
}

// readPump turns every incoming prompt frame into a chat turn. Replies go to
// all of the user's sockets, errors only to this one. Turns run beside the
// loop so pongs keep extending the read deadline while the model answers.
func (c *Client) readPump(ctx context.Context) {
	var turns sync.WaitGroup
	defer func() {
		// Send must stay open until no turn can reply on it
		turns.Wait()
		c.Hub.leave(c)
		c.Conn.Close()
	}()
	pongWait := c.Hub.pongWait
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Client", "Unexpected websocket close", map[string]interface{}{
					"user_id": c.UserID,
					"error":   err.Error(),
				})
			}
			return
		}

		var frame dto.WsAskFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.reply(errorFrame("malformed frame, expected {\"prompt\": \"...\"}"))
			continue
		}

		turns.Add(1)
		go func(prompt string) {
			defer turns.Done()
			c.take(ctx, prompt)
		}(frame.Prompt)
	}
}

// take runs one turn. A prompt sent while another is running is refused by
// the turn lock and reported back as an error frame.
func (c *Client) take(ctx context.Context, prompt string) {
	res, err := c.ask(ctx, c.UserID, prompt)
	if err != nil {
		_, message := serverutils.StatusFor(err)
		c.reply(errorFrame(message))
		return
	}
	out, _ := json.Marshal(dto.WsReplyFrame{Type: "reply", Data: res})
	c.Hub.Send(c.UserID, out)
}

func errorFrame(message string) []byte {
	out, _ := json.Marshal(dto.WsReplyFrame{Type: "error", Message: message})
	return out
}

func (c *Client) reply(frame []byte) {
	select {
	case c.Send <- frame:
	default:
	}
}

// writePump pumps frames from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.Hub.pongWait * 9 / 10)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// one frame per message; clients parse each as JSON
			if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
