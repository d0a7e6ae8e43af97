package service

import (
	"context"

	"buildhub-state/internal/appstate"
	"buildhub-state/internal/dto"
	"buildhub-state/internal/entity"
	"buildhub-state/internal/selectors"
	"buildhub-state/internal/slice/auth"
)

type IAuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.AuthResponse, error)
	Status() *selectors.AuthStatus
	UpdateUser(req *dto.UpdateUserRequest) (*entity.User, error)
	ClearError()
}

type authService struct {
	app *appstate.App
}

func NewAuthService(app *appstate.App) IAuthService {
	return &authService{app: app}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	res, err := s.app.Auth.Login.Dispatch(ctx, s.app.Store, *req)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	res, err := s.app.Auth.Register.Dispatch(ctx, s.app.Store, *req)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *authService) Logout(ctx context.Context) error {
	return s.app.Logout(ctx)
}

// Refresh extends the current session when req carries its refresh token.
func (s *authService) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.AuthResponse, error) {
	state := s.app.State().Auth
	res, err := s.app.Auth.Refresh.Dispatch(ctx, s.app.Store, dto.RefreshRequest{
		Presented:     req.RefreshToken,
		User:          state.User,
		RefreshToken:  state.RefreshToken,
		RefreshExpiry: state.RefreshExpiry,
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *authService) Status() *selectors.AuthStatus {
	return selectors.SelectAuthStatus(s.app.State())
}

func (s *authService) UpdateUser(req *dto.UpdateUserRequest) (*entity.User, error) {
	if !selectors.SelectIsAuthenticated(s.app.State()) {
		return nil, ErrNotAuthenticated
	}
	s.app.Store.Dispatch(auth.UpdateUser(*req))
	return selectors.SelectUser(s.app.State()), nil
}

func (s *authService) ClearError() {
	s.app.Store.Dispatch(auth.ClearAuthError())
}
