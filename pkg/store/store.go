// Package store is a small, typed state container: a single state value S
// updated only by a reducer, fed by dispatched actions that pass through an
// ordered list of middleware observers.
package store

import (
	"context"
	"sync"
	"sync/atomic"
)

// Reducer computes the next state. It must not mutate its input and should
// return the same value when the action does not concern it.
type Reducer[S any] func(state S, action Action) S

// Dispatch sends an action through the chain and returns it.
type Dispatch func(Action) Action

// API is what middleware and thunks see of the store.
type API[S any] interface {
	Dispatch(Action) Action
	GetState() S
}

// Middleware observes an action on its way to the reducer. It receives the
// action and the continuation; it must call next exactly once and return its
// result unless it deliberately short-circuits.
type Middleware[S any] func(api API[S], action Action, next Dispatch) Action

// Enhancer wraps the fully composed dispatch (devtools, tracing).
type Enhancer func(next Dispatch) Dispatch

// ThunkFunc is a deferred operation run against the store.
type ThunkFunc[S any] func(ctx context.Context, dispatch Dispatch, getState func() S) error

// Logger is the logging surface the store needs.
type Logger interface {
	Debug(module, message string, details map[string]interface{})
	Info(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
	Error(module, message string, details map[string]interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}

// NopLogger discards everything.
func NopLogger() Logger { return nopLogger{} }

// Option configures a Store.
type Option[S any] func(*Store[S])

// WithMiddleware appends middleware to the chain, in order.
func WithMiddleware[S any](mw ...Middleware[S]) Option[S] {
	return func(s *Store[S]) {
		s.middleware = append(s.middleware, mw...)
	}
}

// WithEnhancer wraps the composed dispatch. Enhancers apply outermost last.
func WithEnhancer[S any](e Enhancer) Option[S] {
	return func(s *Store[S]) {
		s.enhancers = append(s.enhancers, e)
	}
}

// WithLogger sets the store logger.
func WithLogger[S any](l Logger) Option[S] {
	return func(s *Store[S]) {
		if l != nil {
			s.logger = l
		}
	}
}

// Store holds state S. It is safe for concurrent use: the reducer step is
// serialized, middleware and listeners run outside the state lock so they
// may dispatch.
type Store[S any] struct {
	mu      sync.RWMutex
	state   S
	version uint64

	init     func() S
	reducer  Reducer[S]
	dispatch Dispatch

	middleware []Middleware[S]
	enhancers  []Enhancer

	listenMu     sync.RWMutex
	listeners    map[uint64]func()
	nextListener uint64

	requestSeq atomic.Uint64
	logger     Logger
}

// New builds a store. init produces the initial state and is called again
// by Reset.
func New[S any](reducer Reducer[S], init func() S, opts ...Option[S]) *Store[S] {
	s := &Store[S]{
		state:     init(),
		init:      init,
		reducer:   reducer,
		listeners: make(map[uint64]func()),
		logger:    nopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}

	d := Dispatch(s.reduce)
	for i := len(s.middleware) - 1; i >= 0; i-- {
		mw, next := s.middleware[i], d
		d = func(a Action) Action { return mw(s, a, next) }
	}
	for _, e := range s.enhancers {
		d = e(d)
	}
	s.dispatch = d
	return s
}

func (s *Store[S]) reduce(a Action) Action {
	s.mu.Lock()
	s.state = s.reducer(s.state, a)
	s.version++
	s.mu.Unlock()

	s.notify()
	return a
}

// Dispatch sends a through the middleware chain to the reducer.
func (s *Store[S]) Dispatch(a Action) Action {
	return s.dispatch(a)
}

// GetState returns the current state.
func (s *Store[S]) GetState() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Version counts reducer runs since construction.
func (s *Store[S]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// NextRequestID issues a monotonically increasing thunk request id.
func (s *Store[S]) NextRequestID() uint64 {
	return s.requestSeq.Add(1)
}

// Run dispatches an arbitrary thunk.
func (s *Store[S]) Run(ctx context.Context, thunk ThunkFunc[S]) error {
	return thunk(ctx, s.Dispatch, s.GetState)
}

// Subscribe registers fn to run after every reducer step.
func (s *Store[S]) Subscribe(fn func()) (unsubscribe func()) {
	s.listenMu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.listenMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenMu.Lock()
			delete(s.listeners, id)
			s.listenMu.Unlock()
		})
	}
}

func (s *Store[S]) notify() {
	s.listenMu.RLock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenMu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

// Reset restores the initial state and notifies listeners. Request ids keep
// increasing across resets.
func (s *Store[S]) Reset() {
	s.mu.Lock()
	s.state = s.init()
	s.version++
	s.mu.Unlock()

	s.logger.Debug("Store", "State reset", nil)
	s.notify()
}
