package store

import (
	"sync"

	"buildhub-state/pkg/selector"
)

// Select reads one projection of the current state.
func Select[S, T any](s *Store[S], sel func(S) T) T {
	return sel(s.GetState())
}

// SelectMany evaluates independent selectors against one state snapshot and
// returns the results indexed like the input.
func SelectMany[S any](s *Store[S], sels ...func(S) any) []any {
	state := s.GetState()
	out := make([]any, len(sels))
	for i, sel := range sels {
		out[i] = sel(state)
	}
	return out
}

// SelectIf evaluates sel only when cond holds, otherwise it returns fallback.
func SelectIf[S, T any](s *Store[S], cond bool, sel func(S) T, fallback T) T {
	if !cond {
		return fallback
	}
	return sel(s.GetState())
}

// Watch calls onChange whenever the selected value changes identity. It
// returns the unsubscribe function.
func Watch[S, T any](s *Store[S], sel func(S) T, onChange func(prev, next T)) (unsubscribe func()) {
	var mu sync.Mutex
	prev := sel(s.GetState())

	return s.Subscribe(func() {
		next := sel(s.GetState())

		mu.Lock()
		if selector.Same(prev, next) {
			mu.Unlock()
			return
		}
		old := prev
		prev = next
		mu.Unlock()

		onChange(old, next)
	})
}
