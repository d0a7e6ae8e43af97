package middleware

import (
	"strings"

	"buildhub-state/pkg/store"
)

// APIMiddleware logs every pending thunk with its argument.
func APIMiddleware[S any](log store.Logger) store.Middleware[S] {
	return func(api store.API[S], a store.Action, next store.Dispatch) store.Action {
		if strings.Contains(a.Type, store.StatusPending) {
			details := map[string]interface{}{"type": a.Type}
			if a.Meta != nil {
				details["request_id"] = a.Meta.RequestID
				details["arg"] = redact(a.Meta.Arg)
			}
			log.Info("API", "API call started", details)
		}
		return next(a)
	}
}

// redact hides credentials carried in thunk arguments.
func redact(arg any) any {
	type passworded interface{ GetPassword() string }
	switch v := arg.(type) {
	case nil:
		return nil
	case passworded:
		return "[redacted]"
	default:
		return v
	}
}
