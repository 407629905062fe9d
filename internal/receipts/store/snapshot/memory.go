// Package snapshot provides the durable slots the receipt ledger is mirrored
// to. Every backend stores one opaque payload under one key and reports an
// empty slot as sentinel.ErrNotFound.
package snapshot

import (
	"context"
	"sync"

	"cooliehub/pkg/platform/sentinel"
)

// Memory keeps the payload in process. Contents are lost on restart.
type Memory struct {
	mu      sync.RWMutex
	payload []byte
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Read(_ context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.payload == nil {
		return nil, sentinel.ErrNotFound
	}
	return append([]byte(nil), m.payload...), nil
}

func (m *Memory) Write(_ context.Context, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = append([]byte(nil), payload...)
	return nil
}
