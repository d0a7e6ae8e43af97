package dto

import "buildhub-state/internal/entity"

type LoginRequest struct {
	Email      string `json:"email" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

type RegisterRequest struct {
	Name     string          `json:"name" validate:"required,min=2"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6"`
	Role     entity.UserRole `json:"role" validate:"omitempty,oneof=contractor client homeowner admin"`
	Company  string          `json:"company,omitempty"`
}

// AuthResponse is the fulfilled payload of login, register and refresh.
// Expiry fields are unix milliseconds.
type AuthResponse struct {
	User          *entity.User `json:"user"`
	Token         string       `json:"token"`
	RefreshToken  string       `json:"refreshToken"`
	SessionExpiry int64        `json:"sessionExpiry"`
	RefreshExpiry int64        `json:"refreshExpiry"`
	RememberMe    bool         `json:"rememberMe,omitempty"`
}

// RefreshRequest pairs the refresh token a caller presents with the session
// held by the auth branch.
type RefreshRequest struct {
	Presented     string       `json:"-"`
	User          *entity.User `json:"user"`
	RefreshToken  string       `json:"refreshToken"`
	RefreshExpiry int64        `json:"refreshExpiry"`
}

// RefreshTokenRequest is the body of a session refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type UpdateUserRequest struct {
	Name        *string                 `json:"name,omitempty" validate:"omitempty,min=2"`
	Avatar      *string                 `json:"avatar,omitempty"`
	Company     *string                 `json:"company,omitempty"`
	Preferences *entity.UserPreferences `json:"preferences,omitempty"`
}

func (r LoginRequest) GetPassword() string    { return r.Password }
func (r RegisterRequest) GetPassword() string { return r.Password }
