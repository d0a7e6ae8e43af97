// Package appstate composes the slices into the application store and owns
// its lifecycle.
package appstate

import (
	"buildhub-state/internal/entity"
	"buildhub-state/internal/slice/auth"
	"buildhub-state/internal/slice/chatbot"
	"buildhub-state/internal/slice/contractor"
	"buildhub-state/internal/slice/ui"
	"buildhub-state/pkg/store"
)

const (
	PersistKey     = "persist:root"
	PersistVersion = 1
)

type RootState struct {
	Auth       *auth.State       `json:"auth"`
	UI         *ui.State         `json:"ui"`
	Chatbot    *chatbot.State    `json:"chatbot"`
	Contractor *contractor.State `json:"contractor"`
}

func InitialState() *RootState {
	return &RootState{
		Auth:       auth.InitialState(),
		UI:         ui.InitialState(),
		Chatbot:    chatbot.InitialState(),
		Contractor: contractor.InitialState(),
	}
}

// RootReducer runs every slice reducer and returns s itself when no branch
// changed.
func RootReducer(s *RootState, a store.Action) *RootState {
	if a.Type == store.ActionRehydrate {
		if p, ok := store.PayloadAs[PersistedState](a); ok {
			return FromPersisted(s, p)
		}
		return s
	}

	next := RootState{
		Auth:       auth.Reducer(s.Auth, a),
		UI:         ui.Reducer(s.UI, a),
		Chatbot:    chatbot.Reducer(s.Chatbot, a),
		Contractor: contractor.Reducer(s.Contractor, a),
	}
	if next == *s {
		return s
	}
	return &next
}

// PersistedAuth is the durable part of the auth branch. Thunk trackers,
// loading flags and errors are not persisted.
type PersistedAuth struct {
	User            *entity.User `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
	Token           string       `json:"token,omitempty"`
	RefreshToken    string       `json:"refreshToken,omitempty"`
	SessionExpiry   int64        `json:"sessionExpiry,omitempty"`
	RefreshExpiry   int64        `json:"refreshExpiry,omitempty"`
	RememberMe      bool         `json:"rememberMe,omitempty"`
}

type PersistedState struct {
	Auth PersistedAuth `json:"auth"`
}

func ToPersisted(s *RootState) PersistedState {
	a := s.Auth
	return PersistedState{Auth: PersistedAuth{
		User:            a.User,
		IsAuthenticated: a.IsAuthenticated,
		Token:           a.Token,
		RefreshToken:    a.RefreshToken,
		SessionExpiry:   a.SessionExpiry,
		RefreshExpiry:   a.RefreshExpiry,
		RememberMe:      a.RememberMe,
	}}
}

// FromPersisted merges p into the auth branch. A blob without both user and
// token restores an unauthenticated branch.
func FromPersisted(s *RootState, p PersistedState) *RootState {
	pa := p.Auth
	restored := *s.Auth
	restored.User = pa.User
	restored.Token = pa.Token
	restored.RefreshToken = pa.RefreshToken
	restored.SessionExpiry = pa.SessionExpiry
	restored.RefreshExpiry = pa.RefreshExpiry
	restored.RememberMe = pa.RememberMe
	restored.IsAuthenticated = pa.IsAuthenticated && pa.User != nil && pa.Token != ""
	if !restored.IsAuthenticated {
		restored.User = nil
		restored.Token = ""
	}

	next := *s
	next.Auth = &restored
	return &next
}

// Boundary is the persistence boundary of the root state.
var Boundary = store.Boundary[*RootState, PersistedState]{
	Key:     PersistKey,
	Version: PersistVersion,
	Extract: ToPersisted,
	Merge:   FromPersisted,
}
