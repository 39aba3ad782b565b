package websocket

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"neomind-chat-be/internal/dto"
	"neomind-chat-be/internal/pkg/logger"

	fws "github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type socketServer struct {
	url    string
	hub    *Hub
	userID uuid.UUID
}

func newSocketServer(t *testing.T, ask AskFunc, pongWait time.Duration) *socketServer {
	t.Helper()
	hub := NewHub(nil, logger.NewNopLogger())
	hub.pongWait = pongWait
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	userID := uuid.New()
	auth := func(c *fiber.Ctx) error {
		c.Locals("user_id", userID.String())
		return c.Next()
	}
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	NewChatHandler(hub, ask, auth).RegisterRoutes(app)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go app.Listener(ln)
	t.Cleanup(func() {
		_ = app.ShutdownWithTimeout(time.Second)
		cancel()
	})

	return &socketServer{url: "ws://" + ln.Addr().String() + "/chat/v1/ws", hub: hub, userID: userID}
}

type received struct {
	frame dto.WsReplyFrame
	err   error
}

// dial connects and keeps reading in the background so pings are answered.
func (s *socketServer) dial(t *testing.T) (*fws.Conn, <-chan received) {
	t.Helper()
	conn, _, err := fws.DefaultDialer.Dial(s.url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	frames := make(chan received, 16)
	go func() {
		defer close(frames)
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				frames <- received{err: err}
				return
			}
			var frame dto.WsReplyFrame
			if err := json.Unmarshal(raw, &frame); err != nil {
				frames <- received{err: err}
				return
			}
			frames <- received{frame: frame}
		}
	}()
	return conn, frames
}

func nextFrame(t *testing.T, frames <-chan received) dto.WsReplyFrame {
	t.Helper()
	select {
	case r, ok := <-frames:
		require.True(t, ok, "socket closed")
		require.NoError(t, r.err)
		return r.frame
	case <-time.After(5 * time.Second):
		t.Fatal("no frame within 5s")
		return dto.WsReplyFrame{}
	}
}

func sendPrompt(t *testing.T, conn *fws.Conn, prompt string) {
	t.Helper()
	raw, err := json.Marshal(dto.WsAskFrame{Prompt: prompt})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(fws.TextMessage, raw))
}

func echoAsk(delay time.Duration) AskFunc {
	return func(ctx context.Context, userID uuid.UUID, prompt string) (*dto.AskResponse, error) {
		if prompt == "slow" {
			time.Sleep(delay)
		}
		return &dto.AskResponse{Reply: "re: " + prompt, Persisted: true, WorkspaceSaved: true}, nil
	}
}

func TestSocketPromptYieldsReply(t *testing.T) {
	srv := newSocketServer(t, echoAsk(0), defaultPongWait)
	conn, frames := srv.dial(t)

	sendPrompt(t, conn, "2+2?")
	frame := nextFrame(t, frames)
	assert.Equal(t, "reply", frame.Type)
	require.NotNil(t, frame.Data)
	assert.Equal(t, "re: 2+2?", frame.Data.Reply)
}

func TestSocketReplyReachesEveryDevice(t *testing.T) {
	srv := newSocketServer(t, echoAsk(0), defaultPongWait)
	laptop, laptopFrames := srv.dial(t)
	_, phoneFrames := srv.dial(t)
	require.Eventually(t, func() bool { return srv.hub.connected(srv.userID) == 2 }, time.Second, 5*time.Millisecond)

	sendPrompt(t, laptop, "hello")
	assert.Equal(t, "re: hello", nextFrame(t, laptopFrames).Data.Reply)
	assert.Equal(t, "re: hello", nextFrame(t, phoneFrames).Data.Reply)
}

func TestSocketMalformedFrameYieldsError(t *testing.T) {
	srv := newSocketServer(t, echoAsk(0), defaultPongWait)
	conn, frames := srv.dial(t)

	require.NoError(t, conn.WriteMessage(fws.TextMessage, []byte("not json")))
	frame := nextFrame(t, frames)
	assert.Equal(t, "error", frame.Type)
	assert.Contains(t, frame.Message, "malformed frame")

	// the socket stays usable
	sendPrompt(t, conn, "still there?")
	assert.Equal(t, "reply", nextFrame(t, frames).Type)
}

func TestSocketSurvivesTurnLongerThanPongWait(t *testing.T) {
	// the turn outlasts several read deadlines; only pongs keep the socket alive
	srv := newSocketServer(t, echoAsk(time.Second), 300*time.Millisecond)
	conn, frames := srv.dial(t)

	sendPrompt(t, conn, "slow")
	frame := nextFrame(t, frames)
	require.Equal(t, "reply", frame.Type)
	assert.Equal(t, "re: slow", frame.Data.Reply)

	sendPrompt(t, conn, "two")
	assert.Equal(t, "re: two", nextFrame(t, frames).Data.Reply)
	assert.Equal(t, 1, srv.hub.connected(srv.userID))
}
