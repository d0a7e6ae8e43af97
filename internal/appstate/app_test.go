package appstate

import (
	"context"
	"testing"
	"time"

	"buildhub-state/internal/dto"
	"buildhub-state/internal/entity"
	"buildhub-state/internal/slice/auth"
	"buildhub-state/internal/slice/ui"
	"buildhub-state/internal/storage"
	"buildhub-state/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T, kv store.Storage) *App {
	t.Helper()
	app, err := New(context.Background(), Options{
		Storage: kv,
		Auth: auth.Options{
			Tokens:       auth.NewTokenIssuer("test"),
			FailureEmail: "error@test.com",
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestLoginPersistsAndRehydratesAuthOnly(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore("")
	first := newApp(t, kv)

	_, err := first.Auth.Login.Dispatch(ctx, first.Store, dto.LoginRequest{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	first.Store.Dispatch(ui.ToggleTheme())
	require.NotEmpty(t, first.State().UI.Notifications)

	blob, found, err := kv.GetItem(ctx, PersistKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, blob, `"version":1`)
	assert.NotContains(t, blob, "notifications")
	require.NoError(t, first.Close())

	second := newApp(t, kv)
	state := second.State()
	assert.True(t, state.Auth.IsAuthenticated)
	assert.Equal(t, "a@b.com", state.Auth.User.Email)
	assert.Equal(t, first.State().Auth.Token, state.Auth.Token)
	assert.False(t, state.Auth.LoginState.Fulfilled, "trackers are not persisted")
	assert.Empty(t, state.UI.Notifications)
	assert.Equal(t, ui.ThemeLight, state.UI.Theme)
}

func TestRejectedActionAddsOneErrorNotification(t *testing.T) {
	app := newApp(t, storage.NewMemoryStore(""))

	_, err := app.Auth.Login.Dispatch(context.Background(), app.Store, dto.LoginRequest{Email: "", Password: "x"})
	require.Error(t, err)

	list := app.State().UI.Notifications
	require.Len(t, list, 1)
	assert.Equal(t, entity.NotificationError, list[0].Type)
	assert.Equal(t, auth.MsgCredentialsRequired, list[0].Message)
	assert.False(t, app.State().Auth.IsAuthenticated)
}

func TestLogoutPurgesPersistedBlob(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore("")
	app := newApp(t, kv)
	_, err := app.Auth.Login.Dispatch(ctx, app.Store, dto.LoginRequest{Email: "a@b.com", Password: "x", RememberMe: true})
	require.NoError(t, err)

	require.NoError(t, app.Logout(ctx))

	state := app.State().Auth
	assert.Nil(t, state.User)
	assert.False(t, state.IsAuthenticated)
	assert.Empty(t, state.Token)
	assert.Empty(t, kv.Keys())

	types := make([]entity.NotificationType, 0)
	for _, n := range app.State().UI.Notifications {
		types = append(types, n.Type)
	}
	assert.Equal(t, []entity.NotificationType{entity.NotificationSuccess, entity.NotificationSuccess}, types)
}

func TestUnknownBlobVersionIgnored(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore("")
	require.NoError(t, kv.SetItem(ctx, PersistKey, `{"version":7,"state":{"auth":{"isAuthenticated":true,"token":"t"}}}`))

	app := newApp(t, kv)
	assert.False(t, app.State().Auth.IsAuthenticated)
}

func TestFromPersistedRequiresUserAndToken(t *testing.T) {
	s := InitialState()
	merged := FromPersisted(s, PersistedState{Auth: PersistedAuth{IsAuthenticated: true, Token: "t"}})
	assert.False(t, merged.Auth.IsAuthenticated)
	assert.Same(t, s.UI, merged.UI)
}

func TestRootReducerKeepsIdentity(t *testing.T) {
	s := InitialState()
	assert.Same(t, s, RootReducer(s, store.NewAction("nobody/cares", nil)))

	next := RootReducer(s, ui.ToggleSidebar())
	assert.NotSame(t, s, next)
	assert.Same(t, s.Auth, next.Auth)
	assert.Same(t, s.Contractor, next.Contractor)
}

func TestResetRestoresInitialBranches(t *testing.T) {
	app := newApp(t, storage.NewMemoryStore(""))
	app.Store.Dispatch(ui.SetTheme(ui.ThemeDark))
	app.Reset()

	assert.Eventually(t, func() bool { return app.State().UI.Theme == ui.ThemeLight }, time.Second, 10*time.Millisecond)
}
