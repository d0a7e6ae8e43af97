package realtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"buildhub-state/internal/appstate"
	"buildhub-state/internal/dto"
	"buildhub-state/internal/entity"
	"buildhub-state/internal/slice/auth"
	"buildhub-state/internal/storage"
	"buildhub-state/pkg/events"
	pktNats "buildhub-state/pkg/nats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSocket struct {
	mu       sync.Mutex
	token    string
	handlers map[string]pktNats.EventHandler
	closed   bool
}

func (f *fakeSocket) Subscribe(subject string, h pktNats.EventHandler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[subject] = h
	return nil
}

func (f *fakeSocket) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeSocket) emit(t *testing.T, eventType string, data map[string]interface{}) {
	f.mu.Lock()
	h := f.handlers[events.Subject(eventType)]
	f.mu.Unlock()
	require.NotNil(t, h)
	require.NoError(t, h(context.Background(), events.New(eventType, data)))
}

type fakeDialer struct {
	mu      sync.Mutex
	sockets []*fakeSocket
}

func (d *fakeDialer) dial(token string) (Socket, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := &fakeSocket{token: token, handlers: map[string]pktNats.EventHandler{}}
	d.sockets = append(d.sockets, s)
	return s, nil
}

func newApp(t *testing.T) *appstate.App {
	t.Helper()
	app, err := appstate.New(context.Background(), appstate.Options{
		Storage:    storage.NewMemoryStore(""),
		Production: true,
		Auth:       auth.Options{Tokens: auth.NewTokenIssuer("test")},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestConnectorFollowsAuthentication(t *testing.T) {
	ctx := context.Background()
	app := newApp(t)
	dialer := &fakeDialer{}
	conn := NewConnector(app.Store, dialer.dial, nil)
	conn.Start()
	defer conn.Stop()

	assert.False(t, conn.Connected())

	_, err := app.Auth.Login.Dispatch(ctx, app.Store, dto.LoginRequest{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	require.True(t, conn.Connected())
	require.Len(t, dialer.sockets, 1)
	socket := dialer.sockets[0]
	assert.Equal(t, app.State().Auth.Token, socket.token)

	socket.emit(t, events.TypeNotification, map[string]interface{}{
		"id": "server-side-id", "type": "info", "title": "Quote received", "message": "Ace Plumbing sent a quote",
	})
	last := app.State().UI.Notifications[len(app.State().UI.Notifications)-1]
	assert.Equal(t, "Quote received", last.Title)
	assert.Equal(t, entity.NotificationInfo, last.Type)

	socket.emit(t, events.TypeContractorUpdated, map[string]interface{}{
		"id": "c9", "name": "New Co", "rating": 4.1, "verified": true,
	})
	require.Len(t, app.State().Contractor.Contractors, 1)
	assert.Equal(t, "New Co", app.State().Contractor.Contractors[0].Name)

	require.NoError(t, app.Logout(ctx))
	assert.False(t, conn.Connected())
	assert.True(t, socket.closed)
}

func TestConnectorConnectsWhenAlreadySignedIn(t *testing.T) {
	app := newApp(t)
	_, err := app.Auth.Login.Dispatch(context.Background(), app.Store, dto.LoginRequest{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)

	dialer := &fakeDialer{}
	conn := NewConnector(app.Store, dialer.dial, nil)
	conn.Start()
	assert.Eventually(t, conn.Connected, time.Second, 10*time.Millisecond)

	conn.Stop()
	assert.False(t, conn.Connected())
	assert.True(t, dialer.sockets[0].closed)
}

func TestConnectorStartRacingLogoutEndsSignedOut(t *testing.T) {
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		app := newApp(t)
		_, err := app.Auth.Login.Dispatch(ctx, app.Store, dto.LoginRequest{Email: "a@b.com", Password: "x"})
		require.NoError(t, err)

		conn := NewConnector(app.Store, (&fakeDialer{}).dial, nil)
		loggedOut := make(chan struct{})
		go func() {
			defer close(loggedOut)
			_ = app.Logout(ctx)
		}()
		conn.Start()
		<-loggedOut

		assert.False(t, conn.Connected(), "iteration %d", i)
		conn.Stop()
	}
}
