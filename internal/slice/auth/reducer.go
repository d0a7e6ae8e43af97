package auth

import (
	"buildhub-state/internal/dto"
	"buildhub-state/pkg/store"
)

func ClearAuthError() store.Action {
	return store.NewAction(TypeClearError, nil)
}

func UpdateUser(patch dto.UpdateUserRequest) store.Action {
	return store.NewAction(TypeUpdateUser, patch)
}

// Reducer applies auth actions. Unrelated actions return s unchanged.
func Reducer(s *State, a store.Action) *State {
	switch a.Type {
	case TypeClearError:
		if s.Error == "" {
			return s
		}
		next := s.clone()
		next.Error = ""
		return next

	case TypeUpdateUser:
		patch, ok := store.PayloadAs[dto.UpdateUserRequest](a)
		if !ok || s.User == nil {
			return s
		}
		user := *s.User
		if patch.Name != nil {
			user.Name = *patch.Name
		}
		if patch.Avatar != nil {
			user.Avatar = *patch.Avatar
		}
		if patch.Company != nil {
			user.Company = *patch.Company
		}
		if patch.Preferences != nil {
			prefs := *patch.Preferences
			user.Preferences = &prefs
		}
		next := s.clone()
		next.User = &user
		return next

	case TypeLogin + "/" + store.StatusPending:
		next := startLoading(s)
		next.LoginState = next.LoginState.Start()
		return next
	case TypeLogin + "/" + store.StatusFulfilled:
		next := applySession(s, a)
		next.LoginState = next.LoginState.Fulfill()
		return next
	case TypeLogin + "/" + store.StatusRejected:
		next := stopLoading(s, a)
		next.LoginState = next.LoginState.Reject(next.Error)
		return next

	case TypeRegister + "/" + store.StatusPending:
		next := startLoading(s)
		next.RegisterState = next.RegisterState.Start()
		return next
	case TypeRegister + "/" + store.StatusFulfilled:
		next := applySession(s, a)
		next.RegisterState = next.RegisterState.Fulfill()
		return next
	case TypeRegister + "/" + store.StatusRejected:
		next := stopLoading(s, a)
		next.RegisterState = next.RegisterState.Reject(next.Error)
		return next

	case TypeLogout + "/" + store.StatusPending:
		next := startLoading(s)
		next.LogoutState = next.LogoutState.Start()
		return next
	case TypeLogout + "/" + store.StatusFulfilled:
		next := s.clone()
		next.clearSession()
		next.IsLoading = false
		next.Error = ""
		next.LogoutState = next.LogoutState.Fulfill()
		return next
	case TypeLogout + "/" + store.StatusRejected:
		// The local session is dropped even when durable storage could not be
		// cleared.
		next := stopLoading(s, a)
		next.clearSession()
		next.LogoutState = next.LogoutState.Reject(next.Error)
		return next

	case TypeRefresh + "/" + store.StatusPending:
		return startLoading(s)
	case TypeRefresh + "/" + store.StatusFulfilled:
		resp, ok := store.PayloadAs[dto.AuthResponse](a)
		next := s.clone()
		next.IsLoading = false
		next.Error = ""
		if ok {
			next.Token = resp.Token
			next.SessionExpiry = resp.SessionExpiry
		}
		return next
	case TypeRefresh + "/" + store.StatusRejected:
		next := stopLoading(s, a)
		if next.Error != MsgInvalidRefreshToken {
			next.clearSession()
		}
		return next
	}
	return s
}

func startLoading(s *State) *State {
	next := s.clone()
	next.IsLoading = true
	next.Error = ""
	return next
}

func stopLoading(s *State, a store.Action) *State {
	next := s.clone()
	next.IsLoading = false
	next.Error = store.RejectionMessage(a)
	return next
}

func applySession(s *State, a store.Action) *State {
	next := s.clone()
	next.IsLoading = false
	next.Error = ""
	resp, ok := store.PayloadAs[dto.AuthResponse](a)
	if !ok || resp.User == nil || resp.Token == "" {
		return next
	}
	next.User = resp.User
	next.Token = resp.Token
	next.RefreshToken = resp.RefreshToken
	next.SessionExpiry = resp.SessionExpiry
	next.RefreshExpiry = resp.RefreshExpiry
	next.RememberMe = resp.RememberMe
	next.IsAuthenticated = true
	return next
}
