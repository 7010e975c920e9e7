package tokenstore

import (
	"context"
	"sync"

	"github.com/oubuilding/apartment-client/internal/core/ports"
)

// Memory is a process-local slot. The gateway uses one per application
// context when no Redis is configured.
type Memory struct {
	mu    sync.Mutex
	token string
}

// Memories returns a factory opening a fresh Memory slot per context.
func Memories() ports.TokenStoreFactory {
	return func(string) ports.TokenStore { return &Memory{} }
}

func (m *Memory) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", ports.ErrNoToken
	}
	return m.token, nil
}

func (m *Memory) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
