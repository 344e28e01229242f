package store

import (
	"context"
	"sync"
)

// Memory keeps options in process memory. It is the default store for tests
// and for servers started without a configured backend.
type Memory struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]map[string]string)}
}

func (m *Memory) Get(ctx context.Context, key string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := ValidateKey(key)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return Clone(value), nil
}

func (m *Memory) Put(ctx context.Context, key string, value map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := ValidateKey(key)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = cloneNonNil(value)
	return nil
}

func (m *Memory) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	key, err := ValidateKey(key)
	if err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.values[key]
	return ok, nil
}

func (m *Memory) Add(ctx context.Context, key string, value map[string]string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	key, err := ValidateKey(key)
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = cloneNonNil(value)
	return true, nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

func cloneNonNil(value map[string]string) map[string]string {
	if value == nil {
		return map[string]string{}
	}
	return Clone(value)
}
