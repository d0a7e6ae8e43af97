package service

import (
	"buildhub-state/internal/appstate"
	"buildhub-state/internal/dto"
	"buildhub-state/internal/entity"
	"buildhub-state/internal/pkg/validation"
	"buildhub-state/internal/selectors"
	"buildhub-state/internal/slice/ui"

	"github.com/google/uuid"
)

type IUIService interface {
	State() *ui.State
	Dashboard() *selectors.DashboardView
	SetTheme(req *dto.ThemeRequest) (ui.Theme, error)
	ToggleTheme() ui.Theme
	Notifications(filter entity.NotificationType) []entity.Notification
	Notify(req *dto.NotificationRequest) (*entity.Notification, error)
	Dismiss(id uuid.UUID)
	ClearNotifications()
	OpenModal(req *dto.ModalRequest) (*ui.State, error)
	CloseModals() *ui.State
	Sidebar(req *dto.SidebarRequest) bool
}

type uiService struct {
	app *appstate.App
}

func NewUIService(app *appstate.App) IUIService {
	return &uiService{app: app}
}

func (s *uiService) State() *ui.State {
	return selectors.SelectUI(s.app.State())
}

func (s *uiService) Dashboard() *selectors.DashboardView {
	return selectors.SelectDashboardView(s.app.State())
}

func (s *uiService) SetTheme(req *dto.ThemeRequest) (ui.Theme, error) {
	if err := validation.Validator().Struct(req); err != nil {
		return "", ErrInvalidTheme
	}
	s.app.Store.Dispatch(ui.SetTheme(ui.Theme(req.Theme)))
	return selectors.SelectTheme(s.app.State()), nil
}

func (s *uiService) ToggleTheme() ui.Theme {
	s.app.Store.Dispatch(ui.ToggleTheme())
	return selectors.SelectTheme(s.app.State())
}

// Notifications lists current notifications, optionally of one type.
func (s *uiService) Notifications(filter entity.NotificationType) []entity.Notification {
	if filter == "" {
		return selectors.SelectNotifications(s.app.State())
	}
	return selectors.NotificationsOfType(filter)(s.app.State())
}

func (s *uiService) Notify(req *dto.NotificationRequest) (*entity.Notification, error) {
	if err := validation.Validator().Struct(req); err != nil {
		return nil, err
	}
	action := ui.AddNotification(entity.Notification{
		Type:     req.Type,
		Title:    req.Title,
		Message:  req.Message,
		Duration: req.Duration,
	})
	n, _ := action.Payload.(entity.Notification)
	s.app.Store.Dispatch(action)
	return &n, nil
}

func (s *uiService) Dismiss(id uuid.UUID) {
	s.app.Store.Dispatch(ui.RemoveNotification(id))
}

func (s *uiService) ClearNotifications() {
	s.app.Store.Dispatch(ui.ClearNotifications())
}

func (s *uiService) OpenModal(req *dto.ModalRequest) (*ui.State, error) {
	if err := validation.Validator().Struct(req); err != nil {
		return nil, err
	}
	if req.Modal == "login" {
		s.app.Store.Dispatch(ui.OpenLoginModal())
	} else {
		s.app.Store.Dispatch(ui.OpenSignupModal())
	}
	return s.State(), nil
}

func (s *uiService) CloseModals() *ui.State {
	s.app.Store.Dispatch(ui.CloseModals())
	return s.State()
}

// Sidebar sets the sidebar when req.Open is given and toggles it otherwise.
func (s *uiService) Sidebar(req *dto.SidebarRequest) bool {
	if req != nil && req.Open != nil {
		s.app.Store.Dispatch(ui.SetSidebarOpen(*req.Open))
	} else {
		s.app.Store.Dispatch(ui.ToggleSidebar())
	}
	return selectors.SelectIsSidebarOpen(s.app.State())
}
