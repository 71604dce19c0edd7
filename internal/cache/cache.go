// Package cache provides the quote cache used to avoid recomputing identical
// advisory requests.
package cache

import (
	"context"
	"sync"
)

// Cache stores serialized quotes keyed by request fingerprint. A failed
// lookup or store is never fatal; callers recompute on miss.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
}

// Memory is an in-process Cache for single-instance deployments and tests.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get returns the cached value for key, if present.
func (m *Memory) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[key]
	return val, ok
}

// Set stores value under key.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
