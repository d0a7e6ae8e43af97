package middleware

import (
	"strings"

	"buildhub-state/pkg/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	actionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "buildhub",
			Subsystem: "store",
			Name:      "actions_total",
			Help:      "Actions dispatched, by slice.",
		},
		[]string{"slice"},
	)

	thunkOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "buildhub",
			Subsystem: "store",
			Name:      "thunk_outcomes_total",
			Help:      "Settled async thunks, by type prefix and outcome.",
		},
		[]string{"thunk", "outcome"},
	)

	thunksInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "buildhub",
			Subsystem: "store",
			Name:      "thunks_in_flight",
			Help:      "Async thunks that have started but not settled.",
		},
		[]string{"thunk"},
	)
)

// MetricsMiddleware counts actions and thunk outcomes.
func MetricsMiddleware[S any]() store.Middleware[S] {
	return func(api store.API[S], a store.Action, next store.Dispatch) store.Action {
		result := next(a)

		slice, _, _ := strings.Cut(a.Type, "/")
		actionsTotal.WithLabelValues(slice).Inc()

		if a.Meta == nil || a.Meta.RequestStatus == "" {
			return result
		}
		prefix := strings.TrimSuffix(a.Type, "/"+a.Meta.RequestStatus)
		switch a.Meta.RequestStatus {
		case store.StatusPending:
			thunksInFlight.WithLabelValues(prefix).Inc()
		case store.StatusFulfilled, store.StatusRejected:
			thunksInFlight.WithLabelValues(prefix).Dec()
			thunkOutcomesTotal.WithLabelValues(prefix, a.Meta.RequestStatus).Inc()
		}
		return result
	}
}
