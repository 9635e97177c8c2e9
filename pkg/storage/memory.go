package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
)

// Memory is a map backed store with the same JSON semantics as Store.
// It does not persist anything and is meant for tests and dry runs.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get returns copies of the stored values for the keys that exist
func (m *Memory) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		if val, ok := m.data[key]; ok {
			result[key] = bytes.Clone(val)
		}
	}
	return result, nil
}

// Set stores all values atomically
func (m *Memory) Set(ctx context.Context, values map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded, err := encodeValues(values)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for key, data := range encoded {
		m.data[key] = data
	}
	return nil
}

// SetRaw stores pre-encoded JSON under key, bypassing marshalling
func (m *Memory) SetRaw(key string, raw json.RawMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = bytes.Clone(raw)
}

// Raw returns the stored bytes for key
func (m *Memory) Raw(key string) (json.RawMessage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[key]
	return bytes.Clone(val), ok
}
