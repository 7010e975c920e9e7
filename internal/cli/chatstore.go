package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

// DialFunc connects to the realtime store.
type DialFunc func(ctx context.Context) (ports.ChatStore, error)

// LazyChatStore connects on first use so that commands without chat never
// need the realtime store to be up. A failed dial is retried on the next call.
type LazyChatStore struct {
	dial DialFunc

	mu    sync.Mutex
	store ports.ChatStore
}

func NewLazyChatStore(dial DialFunc) *LazyChatStore {
	return &LazyChatStore{dial: dial}
}

func (l *LazyChatStore) get(ctx context.Context) (ports.ChatStore, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.store != nil {
		return l.store, nil
	}
	store, err := l.dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect chat store: %w", err)
	}
	l.store = store
	return store, nil
}

func (l *LazyChatStore) Append(ctx context.Context, path string, msg domain.ChatMessage) (string, error) {
	store, err := l.get(ctx)
	if err != nil {
		return "", err
	}
	return store.Append(ctx, path, msg)
}

func (l *LazyChatStore) Subscribe(ctx context.Context, path string, fn func([]domain.ChatMessage)) (ports.Subscription, error) {
	store, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return store.Subscribe(ctx, path, fn)
}
