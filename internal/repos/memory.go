package repos

import (
	"context"
	"sync"
)

// MemoryCollection keeps documents in process memory for the process lifetime.
type MemoryCollection[T any] struct {
	mu    sync.RWMutex
	docs  []T
	index map[string]int
	key   KeyFunc[T]
}

func NewMemoryCollection[T any](key KeyFunc[T]) *MemoryCollection[T] {
	return &MemoryCollection[T]{index: map[string]int{}, key: key}
}

func (m *MemoryCollection[T]) Insert(_ context.Context, doc T) error {
	k := m.key(doc)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.index[k]; ok {
		return ErrDuplicate
	}
	m.index[k] = len(m.docs)
	m.docs = append(m.docs, doc)
	return nil
}

func (m *MemoryCollection[T]) List(_ context.Context) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, len(m.docs))
	copy(out, m.docs)
	return out, nil
}

func (m *MemoryCollection[T]) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs), nil
}

func (m *MemoryCollection[T]) Get(_ context.Context, key string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.index[key]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return m.docs[i], nil
}
