package kv

import (
	"context"
	"sync"
)

// MemoryRepository keeps entries in a map. Contents are lost on exit.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[string]string)}
}

func (r *MemoryRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (r *MemoryRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = value
	return nil
}

func (r *MemoryRepository) Close(context.Context) error { return nil }
