package selectors

import (
	"buildhub-state/internal/dto"
	"buildhub-state/internal/slice/ui"
	"buildhub-state/pkg/selector"
)

// DashboardView combines what the landing dashboard needs in one read.
type DashboardView struct {
	Auth                *AuthStatus        `json:"auth"`
	Theme               ui.Theme           `json:"theme"`
	UnreadNotifications int                `json:"unreadNotifications"`
	Chatbot             *dto.ChatbotStatus `json:"chatbot"`
}

var SelectDashboardView = selector.Create4(SelectAuthStatus, SelectTheme, SelectNotificationCount, SelectChatbotStatus,
	func(a *AuthStatus, theme ui.Theme, unread int, chat *dto.ChatbotStatus) *DashboardView {
		return &DashboardView{Auth: a, Theme: theme, UnreadNotifications: unread, Chatbot: chat}
	})
