package middleware

import (
	"context"
	"sync"
	"testing"

	"buildhub-state/internal/dto"
	"buildhub-state/internal/entity"
	"buildhub-state/internal/slice/auth"
	"buildhub-state/internal/slice/ui"
	"buildhub-state/pkg/store"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testState struct {
	UI *ui.State
}

func testReducer(s *testState, a store.Action) *testState {
	next := ui.Reducer(s.UI, a)
	if next == s.UI {
		return s
	}
	return &testState{UI: next}
}

func newTestStore(mw ...store.Middleware[*testState]) *store.Store[*testState] {
	return store.New(testReducer, func() *testState { return &testState{UI: ui.InitialState()} },
		store.WithMiddleware(mw...))
}

func TestErrorMiddlewareNotifiesOnRejected(t *testing.T) {
	tests := []struct {
		name   string
		action store.Action
		want   string
	}{
		{"payload message", store.Action{Type: "x/rejected", Payload: map[string]any{"message": "Nope"}}, "Nope"},
		{"string payload", store.Action{Type: "x/rejected", Payload: "Invalid credentials"}, "Invalid credentials"},
		{"error message", store.Action{Type: "x/rejected", Error: &store.SerializedError{Message: "timeout"}}, "timeout"},
		{"fallback", store.Action{Type: "x/rejected"}, DefaultErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(ErrorMiddleware[*testState]())
			s.Dispatch(tt.action)

			list := s.GetState().UI.Notifications
			require.Len(t, list, 1)
			assert.Equal(t, entity.NotificationError, list[0].Type)
			assert.Equal(t, tt.want, list[0].Message)
			assert.Equal(t, ui.ErrorNotificationDuration, list[0].Duration)
		})
	}
}

func TestErrorMiddlewareSuccessAllowList(t *testing.T) {
	s := newTestStore(ErrorMiddleware[*testState]())
	s.Dispatch(store.NewAction("contractor/fetchContractors/fulfilled", nil))
	assert.Empty(t, s.GetState().UI.Notifications)

	s.Dispatch(store.NewAction(auth.TypeLogin+"/fulfilled", nil))
	list := s.GetState().UI.Notifications
	require.Len(t, list, 1)
	assert.Equal(t, entity.NotificationSuccess, list[0].Type)
	assert.Equal(t, ui.SuccessNotificationDuration, list[0].Duration)
}

type captureLogger struct {
	mu      sync.Mutex
	details []map[string]interface{}
}

func (c *captureLogger) Debug(string, string, map[string]interface{}) {}
func (c *captureLogger) Warn(string, string, map[string]interface{})  {}
func (c *captureLogger) Error(string, string, map[string]interface{}) {}
func (c *captureLogger) Info(_, _ string, d map[string]interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.details = append(c.details, d)
}

func TestAPIMiddlewareLogsPendingAndRedacts(t *testing.T) {
	log := &captureLogger{}
	s := newTestStore(APIMiddleware[*testState](log))
	login := store.NewAsyncThunk(auth.TypeLogin, func(context.Context, dto.LoginRequest, store.ThunkAPI) (int, error) {
		return 1, nil
	})

	_, err := login.Dispatch(context.Background(), s, dto.LoginRequest{Email: "a@b.com", Password: "secret"})
	require.NoError(t, err)

	require.Len(t, log.details, 1)
	assert.Equal(t, auth.TypeLogin+"/pending", log.details[0]["type"])
	assert.Equal(t, "[redacted]", log.details[0]["arg"])
}

func TestMetricsMiddlewareCountsOutcomes(t *testing.T) {
	s := newTestStore(MetricsMiddleware[*testState]())
	thunk := store.NewAsyncThunk("metrics/sample", func(context.Context, struct{}, store.ThunkAPI) (int, error) {
		return 0, store.RejectWithValue("no")
	})

	before := testutil.ToFloat64(thunkOutcomesTotal.WithLabelValues("metrics/sample", store.StatusRejected))
	_, _ = thunk.Dispatch(context.Background(), s, struct{}{})
	after := testutil.ToFloat64(thunkOutcomesTotal.WithLabelValues("metrics/sample", store.StatusRejected))

	assert.Equal(t, before+1, after)
	assert.Equal(t, float64(0), testutil.ToFloat64(thunksInFlight.WithLabelValues("metrics/sample")))
}
