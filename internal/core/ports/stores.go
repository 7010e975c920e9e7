package ports

import (
	"context"
	"errors"
	"io"

	"github.com/oubuilding/apartment-client/internal/core/domain"
)

// ErrNoToken is returned by TokenStore.Load when the slot is empty.
var ErrNoToken = errors.New("no access token stored")

// TokenStore is the single persisted slot holding the access token.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// TokenStoreFactory opens the token slot of one application context.
type TokenStoreFactory func(sessionID string) TokenStore

// ChatStore is the realtime keyed log. Subscribe delivers the full snapshot of
// the room once on subscription and again after every append.
type ChatStore interface {
	Append(ctx context.Context, path string, msg domain.ChatMessage) (string, error)
	Subscribe(ctx context.Context, path string, fn func([]domain.ChatMessage)) (Subscription, error)
}

// Subscription releases a ChatStore listener. Unsubscribe is safe to call
// more than once. A delivery already in flight may still complete.
type Subscription interface {
	Unsubscribe() error
}

// ImageHost uploads a picture and returns its public URL.
type ImageHost interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}
