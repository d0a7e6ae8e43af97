package selectors

import (
	"buildhub-state/internal/entity"
	"buildhub-state/internal/slice/ui"
	"buildhub-state/pkg/selector"
)

func SelectUI(s Root) *ui.State           { return s.UI }
func SelectIsMobileMenuOpen(s Root) bool  { return s.UI.IsMobileMenuOpen }
func SelectActiveDropdown(s Root) string  { return s.UI.ActiveDropdown }
func SelectIsLoginModalOpen(s Root) bool  { return s.UI.IsLoginModalOpen }
func SelectIsSignupModalOpen(s Root) bool { return s.UI.IsSignupModalOpen }
func SelectIsPageLoading(s Root) bool     { return s.UI.IsPageLoading }
func SelectTheme(s Root) ui.Theme         { return s.UI.Theme }
func SelectIsDarkMode(s Root) bool        { return s.UI.Theme == ui.ThemeDark }
func SelectIsSidebarOpen(s Root) bool     { return s.UI.IsSidebarOpen }
func SelectNotificationCount(s Root) int  { return len(s.UI.Notifications) }
func SelectIsAnyModalOpen(s Root) bool    { return s.UI.IsLoginModalOpen || s.UI.IsSignupModalOpen }
func SelectNotifications(s Root) []entity.Notification {
	return s.UI.Notifications
}

// SelectLatestNotification returns the most recently added notification, or
// nil.
var SelectLatestNotification = selector.Create1(SelectNotifications, func(list []entity.Notification) *entity.Notification {
	if len(list) == 0 {
		return nil
	}
	n := list[len(list)-1]
	return &n
})

func NotificationsOfType(t entity.NotificationType) selector.Selector[Root, []entity.Notification] {
	return selector.Create1(SelectNotifications, func(list []entity.Notification) []entity.Notification {
		out := []entity.Notification{}
		for _, n := range list {
			if n.Type == t {
				out = append(out, n)
			}
		}
		return out
	})
}
