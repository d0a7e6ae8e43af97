package auth

import (
	"context"
	"testing"
	"time"
	"unicode/utf8"

	"buildhub-state/internal/dto"
	"buildhub-state/internal/entity"
	"buildhub-state/internal/storage"
	"buildhub-state/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*store.Store[*State], *Thunks, *storage.MemoryStore) {
	t.Helper()
	kv := storage.NewMemoryStore("")
	thunks := NewThunks(Options{
		Storage:      kv,
		Tokens:       NewTokenIssuer("test-secret"),
		FailureEmail: "error@test.com",
		Now:          func() time.Time { return fixedNow },
	})
	return store.New(Reducer, InitialState), thunks, kv
}

func TestLoginRejections(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.LoginRequest
		wantMsg string
	}{
		{"empty email", dto.LoginRequest{Email: "", Password: "x"}, MsgCredentialsRequired},
		{"empty password", dto.LoginRequest{Email: "a@b.com"}, MsgCredentialsRequired},
		{"sentinel", dto.LoginRequest{Email: "error@test.com", Password: "x"}, MsgInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, thunks, kv := setup(t)
			_, err := thunks.Login.Dispatch(context.Background(), s, tt.req)
			require.Error(t, err)

			state := s.GetState()
			assert.Equal(t, tt.wantMsg, state.Error)
			assert.False(t, state.IsAuthenticated)
			assert.False(t, state.IsLoading)
			assert.Nil(t, state.User)
			assert.Equal(t, store.ThunkState{Rejected: true, Error: tt.wantMsg}, state.LoginState)
			assert.Empty(t, kv.Keys())
		})
	}
}

func TestLoginRememberMe(t *testing.T) {
	s, thunks, kv := setup(t)
	ctx := context.Background()

	resp, err := thunks.Login.Dispatch(ctx, s, dto.LoginRequest{Email: "a@b.com", Password: "x", RememberMe: true})
	require.NoError(t, err)

	state := s.GetState()
	assert.True(t, state.IsAuthenticated)
	assert.NotNil(t, state.User)
	assert.Equal(t, "a@b.com", state.User.Email)
	assert.Equal(t, fixedNow.UnixMilli()+3_600_000, state.SessionExpiry)
	assert.Equal(t, fixedNow.Add(7*24*time.Hour).UnixMilli(), state.RefreshExpiry)
	assert.Equal(t, resp.Token, state.Token)
	assert.True(t, state.LoginState.Settled())
	assert.False(t, state.LoginState.Rejected)

	marker, found, _ := kv.GetItem(ctx, KeyRememberMe)
	assert.True(t, found)
	assert.Equal(t, "true", marker)
	for _, key := range []string{KeyToken, KeyRefreshToken, KeySessionExpiry, KeyUserData} {
		_, found, _ := kv.GetItem(ctx, key)
		assert.True(t, found, key)
	}

	claims, err := thunks.opts.Tokens.Parse(state.Token)
	require.NoError(t, err)
	assert.Equal(t, state.User.Id.String(), claims["user_id"])
}

func TestLoginWithoutRememberMeLeavesNoMarker(t *testing.T) {
	s, thunks, kv := setup(t)
	_, err := thunks.Login.Dispatch(context.Background(), s, dto.LoginRequest{Email: "jane.doe@b.com", Password: "x"})
	require.NoError(t, err)

	_, found, _ := kv.GetItem(context.Background(), KeyRememberMe)
	assert.False(t, found)
	assert.Equal(t, "Jane Doe", s.GetState().User.Name)
}

func TestLoginDisplayName(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"jane.doe@b.com", "Jane Doe"},
		{"nope", "Nope"},
		{"élodie.ñuñez@b.com", "Élodie Ñuñez"},
		{"__@b.com", "__@b.com"},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			s, thunks, _ := setup(t)
			_, err := thunks.Login.Dispatch(context.Background(), s, dto.LoginRequest{Email: tt.email, Password: "x"})
			require.NoError(t, err)

			name := s.GetState().User.Name
			assert.Equal(t, tt.want, name)
			assert.True(t, utf8.ValidString(name))
		})
	}
}

func TestLogoutClearsSession(t *testing.T) {
	s, thunks, kv := setup(t)
	ctx := context.Background()
	_, err := thunks.Login.Dispatch(ctx, s, dto.LoginRequest{Email: "a@b.com", Password: "x", RememberMe: true})
	require.NoError(t, err)

	_, err = thunks.Logout.Dispatch(ctx, s, struct{}{})
	require.NoError(t, err)

	state := s.GetState()
	assert.Nil(t, state.User)
	assert.False(t, state.IsAuthenticated)
	assert.Empty(t, state.Token)
	assert.Equal(t, store.ThunkState{Fulfilled: true}, state.LogoutState)
	assert.Empty(t, kv.Keys())
}

func TestRegister(t *testing.T) {
	s, thunks, _ := setup(t)
	ctx := context.Background()

	_, err := thunks.Register.Dispatch(ctx, s, dto.RegisterRequest{Email: "x@y.com", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, MsgRegisterRequired, s.GetState().Error)

	_, err = thunks.Register.Dispatch(ctx, s, dto.RegisterRequest{Name: "Sam", Email: "x@y.com", Password: "123"})
	require.Error(t, err)
	assert.Equal(t, "Password must be at least 6 characters", s.GetState().Error)

	_, err = thunks.Register.Dispatch(ctx, s, dto.RegisterRequest{
		Name: "Sam Builder", Email: "Sam@Y.com", Password: "secret1", Role: entity.UserRoleContractor,
	})
	require.NoError(t, err)

	state := s.GetState()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, entity.UserRoleContractor, state.User.Role)
	assert.Equal(t, "sam@y.com", state.User.Email)
	assert.True(t, state.RegisterState.Fulfilled)
	assert.Empty(t, state.Error)
}

func refreshOf(st *State, presented string) dto.RefreshRequest {
	return dto.RefreshRequest{
		Presented: presented, User: st.User, RefreshToken: st.RefreshToken, RefreshExpiry: st.RefreshExpiry,
	}
}

func TestRefreshRejectsWrongToken(t *testing.T) {
	s, thunks, kv := setup(t)
	ctx := context.Background()
	_, err := thunks.Login.Dispatch(ctx, s, dto.LoginRequest{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	before := s.GetState()

	for _, presented := range []string{"", "not-the-token"} {
		_, err = thunks.Refresh.Dispatch(ctx, s, refreshOf(before, presented))
		require.Error(t, err)

		state := s.GetState()
		assert.Equal(t, MsgInvalidRefreshToken, state.Error)
		assert.True(t, state.IsAuthenticated)
		assert.Equal(t, before.Token, state.Token)
	}
	_, found, _ := kv.GetItem(ctx, KeyToken)
	assert.True(t, found)
}

func TestRefreshSession(t *testing.T) {
	s, thunks, kv := setup(t)
	ctx := context.Background()
	_, err := thunks.Login.Dispatch(ctx, s, dto.LoginRequest{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	before := s.GetState()

	thunks.opts.Now = func() time.Time { return fixedNow.Add(2 * time.Hour) }
	_, err = thunks.Refresh.Dispatch(ctx, s, refreshOf(before, before.RefreshToken))
	require.NoError(t, err)
	after := s.GetState()
	assert.True(t, after.IsAuthenticated)
	assert.Equal(t, fixedNow.Add(3*time.Hour).UnixMilli(), after.SessionExpiry)
	assert.Equal(t, before.RefreshToken, after.RefreshToken)

	thunks.opts.Now = func() time.Time { return fixedNow.Add(8 * 24 * time.Hour) }
	_, err = thunks.Refresh.Dispatch(ctx, s, refreshOf(after, after.RefreshToken))
	require.Error(t, err)
	expired := s.GetState()
	assert.Equal(t, MsgSessionExpired, expired.Error)
	assert.False(t, expired.IsAuthenticated)
	assert.Nil(t, expired.User)
	for _, key := range StorageKeys {
		_, found, _ := kv.GetItem(ctx, key)
		assert.False(t, found, key)
	}
}

func TestSyncReducers(t *testing.T) {
	s, thunks, _ := setup(t)
	_, _ = thunks.Login.Dispatch(context.Background(), s, dto.LoginRequest{Email: "error@test.com", Password: "x"})
	require.NotEmpty(t, s.GetState().Error)

	s.Dispatch(ClearAuthError())
	assert.Empty(t, s.GetState().Error)

	before := s.GetState()
	name := "Ignored"
	s.Dispatch(UpdateUser(dto.UpdateUserRequest{Name: &name}))
	assert.Same(t, before, s.GetState())

	_, err := thunks.Login.Dispatch(context.Background(), s, dto.LoginRequest{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	original := s.GetState().User

	name = "Alex"
	s.Dispatch(UpdateUser(dto.UpdateUserRequest{Name: &name, Preferences: &entity.UserPreferences{Theme: "dark"}}))
	updated := s.GetState().User
	assert.Equal(t, "Alex", updated.Name)
	assert.Equal(t, "dark", updated.Preferences.Theme)
	assert.NotEqual(t, "Alex", original.Name)
}
