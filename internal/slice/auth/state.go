// Package auth owns the authentication branch: the signed-in user, the
// session tokens and the login/register/logout lifecycle.
package auth

import (
	"buildhub-state/internal/entity"
	"buildhub-state/pkg/store"
)

const (
	TypeLogin      = "auth/login"
	TypeRegister   = "auth/register"
	TypeLogout     = "auth/logout"
	TypeRefresh    = "auth/refresh"
	TypeClearError = "auth/clearError"
	TypeUpdateUser = "auth/updateUser"
)

// Durable storage keys written by the auth thunks.
const (
	KeyToken         = "token"
	KeyRefreshToken  = "refreshToken"
	KeySessionExpiry = "sessionExpiry"
	KeyRememberMe    = "rememberMe"
	KeyUserData      = "userData"
)

// StorageKeys lists every durable key the auth branch owns.
var StorageKeys = []string{KeyToken, KeyRefreshToken, KeySessionExpiry, KeyRememberMe, KeyUserData}

// State is the auth branch. Expiry fields are unix milliseconds.
type State struct {
	User            *entity.User `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
	Token           string       `json:"token,omitempty"`
	RefreshToken    string       `json:"refreshToken,omitempty"`
	SessionExpiry   int64        `json:"sessionExpiry,omitempty"`
	RefreshExpiry   int64        `json:"refreshExpiry,omitempty"`
	RememberMe      bool         `json:"rememberMe,omitempty"`
	IsLoading       bool         `json:"isLoading"`
	Error           string       `json:"error,omitempty"`

	LoginState    store.ThunkState `json:"loginState"`
	RegisterState store.ThunkState `json:"registerState"`
	LogoutState   store.ThunkState `json:"logoutState"`
}

func InitialState() *State {
	return &State{}
}

func (s *State) clone() *State {
	next := *s
	return &next
}

// clearSession drops user, tokens and the authenticated flag together.
func (s *State) clearSession() {
	s.User = nil
	s.IsAuthenticated = false
	s.Token = ""
	s.RefreshToken = ""
	s.SessionExpiry = 0
	s.RefreshExpiry = 0
	s.RememberMe = false
}
