package websocket

import (
	"context"
	"testing"
	"time"

	"neomind-chat-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubFansOutToEveryDeviceOfUser(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	alice, bob := uuid.New(), uuid.New()
	laptop := &Client{Hub: hub, UserID: alice, Send: make(chan []byte, 1)}
	phone := &Client{Hub: hub, UserID: alice, Send: make(chan []byte, 1)}
	other := &Client{Hub: hub, UserID: bob, Send: make(chan []byte, 1)}
	hub.register <- laptop
	hub.register <- phone
	hub.register <- other
	require.Eventually(t, func() bool { return hub.connected(alice) == 2 }, time.Second, 5*time.Millisecond)

	hub.Send(alice, []byte(`{"type":"reply"}`))
	assert.Equal(t, `{"type":"reply"}`, string(<-laptop.Send))
	assert.Equal(t, `{"type":"reply"}`, string(<-phone.Send))
	assert.Empty(t, other.Send)

	hub.unregister <- laptop
	require.Eventually(t, func() bool { return hub.connected(alice) == 1 }, time.Second, 5*time.Millisecond)
	_, open := <-laptop.Send
	assert.False(t, open)
}

func TestHubDropsFramesForFullBuffer(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	userID := uuid.New()
	c := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 1)}
	hub.register <- c
	require.Eventually(t, func() bool { return hub.connected(userID) == 1 }, time.Second, 5*time.Millisecond)

	hub.Send(userID, []byte("1"))
	hub.Send(userID, []byte("2"))
	assert.Equal(t, "1", string(<-c.Send))
	assert.Empty(t, c.Send)
}

func TestErrorFrame(t *testing.T) {
	assert.JSONEq(t, `{"type":"error","message":"boom"}`, string(errorFrame("boom")))
}

func TestStoppedHubDoesNotBlockJoinOrLeave(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	c := &Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte, 1)}
	done := make(chan bool)
	go func() {
		joined := hub.join(c)
		hub.leave(c)
		done <- joined
	}()

	select {
	case joined := <-done:
		assert.False(t, joined)
	case <-time.After(time.Second):
		t.Fatal("join/leave blocked on a stopped hub")
	}
}
