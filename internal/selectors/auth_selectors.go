// Package selectors holds the memoized read side of the application store.
// Composite selectors return the same pointer until one of their inputs
// changes identity.
package selectors

import (
	"time"

	"buildhub-state/internal/appstate"
	"buildhub-state/internal/entity"
	"buildhub-state/internal/slice/auth"
	"buildhub-state/pkg/selector"
	"buildhub-state/pkg/store"
)

type Root = *appstate.RootState

type AuthStatus struct {
	IsAuthenticated bool         `json:"isAuthenticated"`
	IsLoading       bool         `json:"isLoading"`
	Error           string       `json:"error,omitempty"`
	User            *entity.User `json:"user"`
}

func SelectAuth(s Root) *auth.State     { return s.Auth }
func SelectUser(s Root) *entity.User    { return s.Auth.User }
func SelectIsAuthenticated(s Root) bool { return s.Auth.IsAuthenticated }
func SelectToken(s Root) string         { return s.Auth.Token }
func SelectSessionExpiry(s Root) int64  { return s.Auth.SessionExpiry }
func SelectLoginState(s Root) store.ThunkState {
	return s.Auth.LoginState
}
func SelectRegisterState(s Root) store.ThunkState {
	return s.Auth.RegisterState
}
func SelectLogoutState(s Root) store.ThunkState {
	return s.Auth.LogoutState
}

func SelectUserRole(s Root) entity.UserRole {
	if s.Auth.User == nil {
		return ""
	}
	return s.Auth.User.Role
}

// SelectUserDisplayName falls back from name to email to "Guest".
func SelectUserDisplayName(s Root) string {
	u := s.Auth.User
	switch {
	case u == nil:
		return "Guest"
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	}
	return "Guest"
}

func SelectIsContractor(s Root) bool { return SelectUserRole(s) == entity.UserRoleContractor }

// SelectIsClient covers both client and homeowner accounts.
func SelectIsClient(s Root) bool {
	role := SelectUserRole(s)
	return role == entity.UserRoleClient || role == entity.UserRoleHomeowner
}

func SelectIsAdmin(s Root) bool { return SelectUserRole(s) == entity.UserRoleAdmin }

var SelectAuthStatus = selector.Create1(SelectAuth, func(a *auth.State) *AuthStatus {
	return &AuthStatus{
		IsAuthenticated: a.IsAuthenticated,
		IsLoading:       a.IsLoading,
		Error:           a.Error,
		User:            a.User,
	}
})

// SessionValidAt reports whether the session is authenticated and unexpired
// at now.
func SessionValidAt(now time.Time) selector.Selector[Root, bool] {
	return func(s Root) bool {
		return s.Auth.IsAuthenticated && s.Auth.SessionExpiry > now.UnixMilli()
	}
}
