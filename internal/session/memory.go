package session

import (
	"context"
	"sync"
)

// Memory keeps the session map in process memory. Tokens are never evicted
// and a restart starts every conversation over — fine for a single instance
// or local testing; use the redis or sqlite backend otherwise.
type Memory struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewMemory creates an empty in-process session store.
func NewMemory() *Memory {
	return &Memory{tokens: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens[key], nil
}

func (m *Memory) Set(_ context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[key] = token
	return nil
}
