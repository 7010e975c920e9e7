package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oubuilding/apartment-client/internal/core/ports"
)

// TokenStore keeps the access token of one application context.
// Key format: token:<session_id>
type TokenStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewTokenStore opens the slot of sessionID. A zero ttl keeps the token until
// it is cleared.
func NewTokenStore(client *redis.Client, sessionID string, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, key: "token:" + sessionID, ttl: ttl}
}

// TokenStores returns a factory opening one slot per application context.
func TokenStores(client *redis.Client, ttl time.Duration) ports.TokenStoreFactory {
	return func(sessionID string) ports.TokenStore {
		return NewTokenStore(client, sessionID, ttl)
	}
}

func (s *TokenStore) Load(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ports.ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return token, nil
}

func (s *TokenStore) Save(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key, token, s.ttl).Err(); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *TokenStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
