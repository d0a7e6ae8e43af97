// Package middleware holds the store's action observers: user-facing error
// and success notifications, request logging and metrics.
package middleware

import (
	"buildhub-state/internal/entity"
	"buildhub-state/internal/slice/auth"
	"buildhub-state/internal/slice/ui"
	"buildhub-state/pkg/store"
)

const DefaultErrorMessage = "An unexpected error occurred"

type notice struct {
	title   string
	message string
}

// successNotices lists the fulfilled actions that earn a success toast.
var successNotices = map[string]notice{
	auth.TypeLogin + "/" + store.StatusFulfilled:    {"Welcome back!", "You have successfully logged in."},
	auth.TypeRegister + "/" + store.StatusFulfilled: {"Account created", "Welcome to BuildHub!"},
	auth.TypeLogout + "/" + store.StatusFulfilled:   {"Signed out", "You have been logged out."},
}

// ErrorMiddleware turns rejected thunks into error notifications and a few
// fulfilled ones into success notifications. The action is forwarded first.
func ErrorMiddleware[S any]() store.Middleware[S] {
	return func(api store.API[S], a store.Action, next store.Dispatch) store.Action {
		result := next(a)

		if a.IsRejected() {
			api.Dispatch(ui.AddNotification(entity.Notification{
				Type:     entity.NotificationError,
				Title:    "Error",
				Message:  RejectedMessage(a),
				Duration: ui.ErrorNotificationDuration,
			}))
			return result
		}

		if n, ok := successNotices[a.Type]; ok {
			api.Dispatch(ui.AddNotification(entity.Notification{
				Type:     entity.NotificationSuccess,
				Title:    n.title,
				Message:  n.message,
				Duration: ui.SuccessNotificationDuration,
			}))
		}
		return result
	}
}

// RejectedMessage prefers payload.message, then a string payload, then the
// serialized error message.
func RejectedMessage(a store.Action) string {
	if msg := store.RejectionMessage(a); msg != "" {
		return msg
	}
	return DefaultErrorMessage
}
