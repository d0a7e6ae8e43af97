package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Persistence lifecycle action types. Development checks skip them.
const (
	ActionPersist   = "persist/PERSIST"
	ActionRehydrate = "persist/REHYDRATE"
	ActionPurge     = "persist/PURGE"
	ActionFlush     = "persist/FLUSH"
)

// PersistActions lists every persistence lifecycle action type.
var PersistActions = []string{ActionPersist, ActionRehydrate, ActionPurge, ActionFlush}

// Storage is a durable string key-value store.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, keys ...string) error
}

// Boundary is the typed serialization boundary between the full state S and
// its persisted subset P. Merge is applied by the root reducer when a
// rehydrate action arrives.
type Boundary[S, P any] struct {
	Key     string
	Version int
	Extract func(S) P
	Merge   func(S, P) S
}

type envelope struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state"`
}

// Persistor writes the persisted subset of a store's state to Storage
// whenever it changes and restores it on Attach.
type Persistor[S, P any] struct {
	storage  Storage
	boundary Boundary[S, P]
	logger   Logger

	mu          sync.Mutex
	ctx         context.Context
	unsubscribe func()
}

// NewPersistor builds a persistor over storage.
func NewPersistor[S, P any](storage Storage, boundary Boundary[S, P], log Logger) *Persistor[S, P] {
	if log == nil {
		log = nopLogger{}
	}
	return &Persistor[S, P]{storage: storage, boundary: boundary, logger: log}
}

// Load reads the persisted subset. A missing blob or a blob written under a
// different version yields ok == false.
func (p *Persistor[S, P]) Load(ctx context.Context) (P, bool, error) {
	var zero P
	raw, found, err := p.storage.GetItem(ctx, p.boundary.Key)
	if err != nil {
		return zero, false, fmt.Errorf("read %s: %w", p.boundary.Key, err)
	}
	if !found {
		return zero, false, nil
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return zero, false, fmt.Errorf("decode %s: %w", p.boundary.Key, err)
	}
	if env.Version != p.boundary.Version {
		p.logger.Warn("Persist", "Discarding blob with unknown version", map[string]interface{}{
			"key":      p.boundary.Key,
			"version":  env.Version,
			"expected": p.boundary.Version,
		})
		return zero, false, nil
	}

	var state P
	if err := json.Unmarshal(env.State, &state); err != nil {
		return zero, false, fmt.Errorf("decode %s state: %w", p.boundary.Key, err)
	}
	return state, true, nil
}

// Flush writes the persisted subset of state.
func (p *Persistor[S, P]) Flush(ctx context.Context, state S) error {
	body, err := json.Marshal(p.boundary.Extract(state))
	if err != nil {
		return fmt.Errorf("encode %s state: %w", p.boundary.Key, err)
	}
	blob, err := json.Marshal(envelope{Version: p.boundary.Version, State: body})
	if err != nil {
		return fmt.Errorf("encode %s: %w", p.boundary.Key, err)
	}
	return p.storage.SetItem(ctx, p.boundary.Key, string(blob))
}

// Purge removes the persisted blob.
func (p *Persistor[S, P]) Purge(ctx context.Context, s *Store[S]) error {
	if err := p.storage.RemoveItem(ctx, p.boundary.Key); err != nil {
		return fmt.Errorf("purge %s: %w", p.boundary.Key, err)
	}
	s.Dispatch(Action{Type: ActionPurge, Payload: p.boundary.Key})
	return nil
}

// Attach rehydrates s from storage and keeps storage in sync with every
// subsequent change to the persisted subset. Later flushes keep ctx's values
// but not its cancellation.
func (p *Persistor[S, P]) Attach(ctx context.Context, s *Store[S]) error {
	s.Dispatch(Action{Type: ActionPersist, Payload: p.boundary.Key})

	restored, ok, err := p.Load(ctx)
	if err != nil {
		p.logger.Error("Persist", "Rehydrate failed", map[string]interface{}{"error": err.Error()})
	}
	if ok {
		s.Dispatch(Action{Type: ActionRehydrate, Payload: restored})
	}

	p.mu.Lock()
	p.ctx = context.WithoutCancel(ctx)
	p.unsubscribe = Watch(s, p.boundary.Extract, func(_, _ P) {
		if err := p.Flush(p.ctx, s.GetState()); err != nil {
			p.logger.Error("Persist", "Flush failed", map[string]interface{}{"error": err.Error()})
			return
		}
		s.Dispatch(Action{Type: ActionFlush, Payload: p.boundary.Key})
	})
	p.mu.Unlock()
	return err
}

// Detach stops syncing.
func (p *Persistor[S, P]) Detach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}
