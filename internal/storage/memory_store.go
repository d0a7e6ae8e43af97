// Package storage provides the durable key-value drivers behind the store's
// "local storage": session keys and the persisted state blob.
package storage

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps items in process memory. Items never expire.
type MemoryStore struct {
	cache  *cache.Cache
	prefix string
}

func NewMemoryStore(prefix string) *MemoryStore {
	return &MemoryStore{
		cache:  cache.New(cache.NoExpiration, 0),
		prefix: prefix,
	}
}

func (m *MemoryStore) GetItem(_ context.Context, key string) (string, bool, error) {
	if x, found := m.cache.Get(m.prefix + key); found {
		return x.(string), true, nil
	}
	return "", false, nil
}

func (m *MemoryStore) SetItem(_ context.Context, key, value string) error {
	m.cache.Set(m.prefix+key, value, cache.NoExpiration)
	return nil
}

func (m *MemoryStore) RemoveItem(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.cache.Delete(m.prefix + k)
	}
	return nil
}

// Keys lists stored keys without the prefix.
func (m *MemoryStore) Keys() []string {
	items := m.cache.Items()
	out := make([]string, 0, len(items))
	for k := range items {
		out = append(out, k[len(m.prefix):])
	}
	return out
}

func (m *MemoryStore) Close() error {
	m.cache.Flush()
	return nil
}
