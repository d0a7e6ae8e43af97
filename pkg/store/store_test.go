package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterState struct {
	Count   int      `json:"count"`
	Loading bool     `json:"loading"`
	Error   string   `json:"error"`
	Log     []string `json:"log"`
}

func counterReducer(s *counterState, a Action) *counterState {
	switch a.Type {
	case "counter/add":
		n, _ := PayloadAs[int](a)
		next := *s
		next.Count += n
		return &next
	case "counter/load/pending":
		next := *s
		next.Loading, next.Error = true, ""
		return &next
	case "counter/load/fulfilled":
		next := *s
		next.Loading = false
		next.Count, _ = PayloadAs[int](a)
		return &next
	case "counter/load/rejected":
		next := *s
		next.Loading = false
		next.Error = RejectionMessage(a)
		return &next
	}
	return s
}

func newCounter(opts ...Option[*counterState]) *Store[*counterState] {
	return New(counterReducer, func() *counterState { return &counterState{} }, opts...)
}

func TestDispatchRunsReducerAndListeners(t *testing.T) {
	s := newCounter()
	calls := 0
	unsubscribe := s.Subscribe(func() { calls++ })

	s.Dispatch(NewAction("counter/add", 2))
	s.Dispatch(NewAction("counter/add", 3))
	assert.Equal(t, 5, s.GetState().Count)
	assert.Equal(t, 2, calls)

	unsubscribe()
	unsubscribe()
	s.Dispatch(NewAction("counter/add", 1))
	assert.Equal(t, 2, calls)
}

func TestUnrelatedActionKeepsStateIdentity(t *testing.T) {
	s := newCounter()
	before := s.GetState()
	s.Dispatch(NewAction("other/thing", nil))
	assert.Same(t, before, s.GetState())
}

func TestMiddlewareOrderAndForwarding(t *testing.T) {
	var order []string
	record := func(name string) Middleware[*counterState] {
		return func(api API[*counterState], a Action, next Dispatch) Action {
			order = append(order, name+":before")
			res := next(a)
			order = append(order, name+":after")
			return res
		}
	}

	s := newCounter(WithMiddleware(record("first"), record("second")))
	res := s.Dispatch(NewAction("counter/add", 1))

	assert.Equal(t, "counter/add", res.Type)
	assert.Equal(t, 1, s.GetState().Count)
	assert.Equal(t, []string{"first:before", "second:before", "second:after", "first:after"}, order)
}

func TestMiddlewareMayDispatchNewActions(t *testing.T) {
	echo := func(api API[*counterState], a Action, next Dispatch) Action {
		res := next(a)
		if a.Type == "counter/add" {
			api.Dispatch(NewAction("counter/echo", nil))
		}
		return res
	}
	var seen []string
	s := newCounter(WithMiddleware(echo, func(api API[*counterState], a Action, next Dispatch) Action {
		seen = append(seen, a.Type)
		return next(a)
	}))

	s.Dispatch(NewAction("counter/add", 1))
	assert.Equal(t, []string{"counter/add", "counter/echo"}, seen)
}

func TestResetRestoresInitialState(t *testing.T) {
	s := newCounter()
	s.Dispatch(NewAction("counter/add", 4))
	id := s.NextRequestID()

	notified := false
	s.Subscribe(func() { notified = true })
	s.Reset()

	assert.Equal(t, 0, s.GetState().Count)
	assert.True(t, notified)
	assert.Greater(t, s.NextRequestID(), id)
}

func TestConcurrentDispatch(t *testing.T) {
	s := newCounter()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(NewAction("counter/add", 1))
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.GetState().Count)
	assert.Equal(t, uint64(50), s.Version())
}

func TestAsyncThunkLifecycle(t *testing.T) {
	tests := []struct {
		name        string
		create      PayloadCreator[string, int]
		wantCount   int
		wantError   string
		wantErr     bool
		wantWithVal bool
	}{
		{
			name:      "fulfilled",
			create:    func(context.Context, string, ThunkAPI) (int, error) { return 7, nil },
			wantCount: 7,
		},
		{
			name:      "plain error",
			create:    func(context.Context, string, ThunkAPI) (int, error) { return 0, errors.New("boom") },
			wantError: "boom",
			wantErr:   true,
		},
		{
			name: "reject with value",
			create: func(context.Context, string, ThunkAPI) (int, error) {
				return 0, RejectWithValue("Invalid credentials")
			},
			wantError:   "Invalid credentials",
			wantErr:     true,
			wantWithVal: true,
		},
		{
			name:      "panic",
			create:    func(context.Context, string, ThunkAPI) (int, error) { panic("bad") },
			wantError: "counter/load: panic: bad",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen []Action
			s := newCounter(WithMiddleware(func(api API[*counterState], a Action, next Dispatch) Action {
				seen = append(seen, a)
				return next(a)
			}))
			thunk := NewAsyncThunk("counter/load", tt.create)

			_, err := thunk.Dispatch(context.Background(), s, "arg")
			assert.Equal(t, tt.wantErr, err != nil)

			state := s.GetState()
			assert.False(t, state.Loading)
			assert.Equal(t, tt.wantCount, state.Count)
			assert.Equal(t, tt.wantError, state.Error)

			require.Len(t, seen, 2)
			assert.Equal(t, thunk.Pending(), seen[0].Type)
			assert.Equal(t, "arg", seen[0].Meta.Arg)
			assert.Equal(t, seen[0].RequestID(), seen[1].RequestID())
			if tt.wantErr {
				assert.True(t, seen[1].IsRejected())
				assert.Equal(t, tt.wantWithVal, seen[1].Meta.RejectedWithValue)
			} else {
				assert.True(t, seen[1].IsFulfilled())
			}
		})
	}
}

func TestAsyncThunkRequestIDsIncrease(t *testing.T) {
	s := newCounter()
	var ids []uint64
	thunk := NewAsyncThunk("counter/load", func(_ context.Context, _ struct{}, api ThunkAPI) (int, error) {
		ids = append(ids, api.RequestID)
		return 1, nil
	})
	for i := 0; i < 3; i++ {
		_, err := thunk.Dispatch(context.Background(), s, struct{}{})
		require.NoError(t, err)
	}
	assert.Less(t, ids[0], ids[1])
	assert.Less(t, ids[1], ids[2])
}

func TestRunThunkFunc(t *testing.T) {
	s := newCounter()
	err := s.Run(context.Background(), func(_ context.Context, dispatch Dispatch, getState func() *counterState) error {
		dispatch(NewAction("counter/add", 2))
		if getState().Count != 2 {
			return errors.New("state not visible to thunk")
		}
		return nil
	})
	assert.NoError(t, err)
}

func TestRejectionMessage(t *testing.T) {
	assert.Equal(t, "from map", RejectionMessage(Action{Payload: map[string]any{"message": "from map"}}))
	assert.Equal(t, "plain", RejectionMessage(Action{Payload: "plain"}))
	assert.Equal(t, "serialized", RejectionMessage(Action{Error: &SerializedError{Message: "serialized"}}))
	assert.Equal(t, "", RejectionMessage(Action{}))
}
