package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"buildhub-state/internal/entity"
	"buildhub-state/internal/slice/ui"
	"buildhub-state/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, nil)
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func connect(t *testing.T, hub *Hub, userID uuid.UUID) *Client {
	t.Helper()
	c := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 8)}
	want := hub.ClientCount() + 1
	require.True(t, hub.Register(c))
	require.Eventually(t, func() bool { return hub.ClientCount() == want }, time.Second, 5*time.Millisecond)
	return c
}

func receive(t *testing.T, c *Client) map[string]any {
	t.Helper()
	select {
	case raw := <-c.Send:
		var msg map[string]any
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
		return nil
	}
}

func TestFollowBroadcastsNewNotifications(t *testing.T) {
	hub, _ := startHub(t)
	a := connect(t, hub, uuid.New())
	b := connect(t, hub, uuid.New())

	s := store.New(ui.Reducer, ui.InitialState)
	stop := Follow(hub, s, func(st *ui.State) []entity.Notification { return st.Notifications })
	defer stop()

	s.Dispatch(ui.AddNotification(entity.Notification{Type: entity.NotificationSuccess, Title: "Saved", Message: "Profile updated"}))

	for _, c := range []*Client{a, b} {
		msg := receive(t, c)
		assert.Equal(t, "notification", msg["type"])
		data := msg["data"].(map[string]any)
		assert.Equal(t, "Saved", data["title"])
		assert.Equal(t, "success", data["type"])
	}

	id := s.GetState().Notifications[0].Id
	s.Dispatch(ui.RemoveNotification(id))
	s.Dispatch(ui.ClearNotifications())
	assert.Len(t, a.Send, 0)
}

func TestSendTargetsOneUser(t *testing.T) {
	hub, _ := startHub(t)
	user := uuid.New()
	phone := connect(t, hub, user)
	laptop := connect(t, hub, user)
	other := connect(t, hub, uuid.New())

	hub.Send(user, entity.Notification{Id: uuid.New(), Type: entity.NotificationInfo, Title: "Hello"})

	assert.Equal(t, "Hello", receive(t, phone)["data"].(map[string]any)["title"])
	assert.Equal(t, "Hello", receive(t, laptop)["data"].(map[string]any)["title"])
	assert.Len(t, other.Send, 0)
}

func TestUnregisterClosesSend(t *testing.T) {
	hub, _ := startHub(t)
	c := connect(t, hub, uuid.New())

	hub.Unregister(c)
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-c.Send
	assert.False(t, open)
}

func TestStoppedHubRejectsClients(t *testing.T) {
	hub, cancel := startHub(t)
	c := connect(t, hub, uuid.New())

	cancel()
	_, open := <-c.Send
	assert.False(t, open)

	<-hub.done
	assert.False(t, hub.Register(&Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte, 1)}))
}
