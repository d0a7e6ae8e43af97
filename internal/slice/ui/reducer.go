package ui

import (
	"slices"
	"time"

	"buildhub-state/internal/entity"
	"buildhub-state/pkg/store"

	"github.com/google/uuid"
)

func ToggleMobileMenu() store.Action { return store.NewAction(TypeToggleMobileMenu, nil) }
func SetMobileMenuOpen(open bool) store.Action {
	return store.NewAction(TypeSetMobileMenuOpen, open)
}
func SetActiveDropdown(id string) store.Action { return store.NewAction(TypeSetActiveDropdown, id) }
func CloseDropdown() store.Action              { return store.NewAction(TypeCloseDropdown, nil) }
func OpenLoginModal() store.Action             { return store.NewAction(TypeOpenLoginModal, nil) }
func OpenSignupModal() store.Action            { return store.NewAction(TypeOpenSignupModal, nil) }
func CloseModals() store.Action                { return store.NewAction(TypeCloseModals, nil) }
func SetPageLoading(loading bool) store.Action { return store.NewAction(TypeSetPageLoading, loading) }
func RemoveNotification(id uuid.UUID) store.Action {
	return store.NewAction(TypeRemoveNotification, id)
}
func ClearNotifications() store.Action      { return store.NewAction(TypeClearNotifications, nil) }
func SetTheme(theme Theme) store.Action     { return store.NewAction(TypeSetTheme, theme) }
func ToggleTheme() store.Action             { return store.NewAction(TypeToggleTheme, nil) }
func ToggleSidebar() store.Action           { return store.NewAction(TypeToggleSidebar, nil) }
func SetSidebarOpen(open bool) store.Action { return store.NewAction(TypeSetSidebarOpen, open) }

// AddNotification stamps n with a fresh id and creation time when they are
// unset, so the reducer itself stays deterministic.
func AddNotification(n entity.Notification) store.Action {
	if n.Id == uuid.Nil {
		n.Id = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.Type == "" {
		n.Type = entity.NotificationInfo
	}
	return store.NewAction(TypeAddNotification, n)
}

func Reducer(s *State, a store.Action) *State {
	switch a.Type {
	case TypeToggleMobileMenu:
		next := s.clone()
		next.IsMobileMenuOpen = !s.IsMobileMenuOpen
		return next
	case TypeSetMobileMenuOpen:
		open, _ := store.PayloadAs[bool](a)
		if open == s.IsMobileMenuOpen {
			return s
		}
		next := s.clone()
		next.IsMobileMenuOpen = open
		return next

	case TypeSetActiveDropdown:
		id, _ := store.PayloadAs[string](a)
		if id == s.ActiveDropdown {
			return s
		}
		next := s.clone()
		next.ActiveDropdown = id
		return next
	case TypeCloseDropdown:
		if s.ActiveDropdown == "" {
			return s
		}
		next := s.clone()
		next.ActiveDropdown = ""
		return next

	case TypeOpenLoginModal:
		next := s.clone()
		next.IsLoginModalOpen, next.IsSignupModalOpen = true, false
		return next
	case TypeOpenSignupModal:
		next := s.clone()
		next.IsLoginModalOpen, next.IsSignupModalOpen = false, true
		return next
	case TypeCloseModals:
		if !s.IsLoginModalOpen && !s.IsSignupModalOpen {
			return s
		}
		next := s.clone()
		next.IsLoginModalOpen, next.IsSignupModalOpen = false, false
		return next

	case TypeSetPageLoading:
		loading, _ := store.PayloadAs[bool](a)
		if loading == s.IsPageLoading {
			return s
		}
		next := s.clone()
		next.IsPageLoading = loading
		return next

	case TypeAddNotification:
		n, ok := store.PayloadAs[entity.Notification](a)
		if !ok {
			return s
		}
		next := s.clone()
		next.Notifications = append(slices.Clone(s.Notifications), n)
		return next
	case TypeRemoveNotification:
		id, _ := store.PayloadAs[uuid.UUID](a)
		idx := slices.IndexFunc(s.Notifications, func(n entity.Notification) bool { return n.Id == id })
		if idx < 0 {
			return s
		}
		next := s.clone()
		next.Notifications = slices.Delete(slices.Clone(s.Notifications), idx, idx+1)
		return next
	case TypeClearNotifications:
		if len(s.Notifications) == 0 {
			return s
		}
		next := s.clone()
		next.Notifications = []entity.Notification{}
		return next

	case TypeSetTheme:
		theme, _ := store.PayloadAs[Theme](a)
		if (theme != ThemeLight && theme != ThemeDark) || theme == s.Theme {
			return s
		}
		next := s.clone()
		next.Theme = theme
		return next
	case TypeToggleTheme:
		next := s.clone()
		if s.Theme == ThemeDark {
			next.Theme = ThemeLight
		} else {
			next.Theme = ThemeDark
		}
		return next

	case TypeToggleSidebar:
		next := s.clone()
		next.IsSidebarOpen = !s.IsSidebarOpen
		return next
	case TypeSetSidebarOpen:
		open, _ := store.PayloadAs[bool](a)
		if open == s.IsSidebarOpen {
			return s
		}
		next := s.clone()
		next.IsSidebarOpen = open
		return next
	}
	return s
}
