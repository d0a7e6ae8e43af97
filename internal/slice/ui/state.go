// Package ui owns ephemeral interface state: menus, modals, page loading,
// notifications and appearance. Nothing here is persisted.
package ui

import "buildhub-state/internal/entity"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

const (
	TypeToggleMobileMenu   = "ui/toggleMobileMenu"
	TypeSetMobileMenuOpen  = "ui/setMobileMenuOpen"
	TypeSetActiveDropdown  = "ui/setActiveDropdown"
	TypeCloseDropdown      = "ui/closeDropdown"
	TypeOpenLoginModal     = "ui/openLoginModal"
	TypeOpenSignupModal    = "ui/openSignupModal"
	TypeCloseModals        = "ui/closeModals"
	TypeSetPageLoading     = "ui/setPageLoading"
	TypeAddNotification    = "ui/addNotification"
	TypeRemoveNotification = "ui/removeNotification"
	TypeClearNotifications = "ui/clearNotifications"
	TypeSetTheme           = "ui/setTheme"
	TypeToggleTheme        = "ui/toggleTheme"
	TypeToggleSidebar      = "ui/toggleSidebar"
	TypeSetSidebarOpen     = "ui/setSidebarOpen"
)

// Default notification lifetimes in milliseconds.
const (
	ErrorNotificationDuration   = 5000
	SuccessNotificationDuration = 3000
)

type State struct {
	IsMobileMenuOpen  bool                  `json:"isMobileMenuOpen"`
	ActiveDropdown    string                `json:"activeDropdown,omitempty"`
	IsLoginModalOpen  bool                  `json:"isLoginModalOpen"`
	IsSignupModalOpen bool                  `json:"isSignupModalOpen"`
	IsPageLoading     bool                  `json:"isPageLoading"`
	Notifications     []entity.Notification `json:"notifications"`
	Theme             Theme                 `json:"theme"`
	IsSidebarOpen     bool                  `json:"isSidebarOpen"`
}

func InitialState() *State {
	return &State{
		Notifications: []entity.Notification{},
		Theme:         ThemeLight,
	}
}

func (s *State) clone() *State {
	next := *s
	return &next
}
