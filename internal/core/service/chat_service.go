package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

// ChatService talks to the realtime store on behalf of the session's user.
type ChatService struct {
	app   *App
	store ports.ChatStore
	users ports.UserAPI
	now   func() time.Time
	log   zerolog.Logger
}

func NewChatService(app *App, store ports.ChatStore, users ports.UserAPI, log zerolog.Logger) *ChatService {
	return &ChatService{app: app, store: store, users: users, now: time.Now, log: log}
}

// Peer resolves who the current user chats with: residents always talk to the
// admin, the admin must pick someone.
func (s *ChatService) Peer(other string) (string, error) {
	id := s.app.State().Identity
	if id == nil {
		return "", domain.ErrNotLoggedIn
	}
	if id.Username != domain.AdminUsername {
		return domain.AdminUsername, nil
	}
	if other == "" || other == domain.AdminUsername {
		return "", domain.ErrNoChatPeer
	}
	return other, nil
}

// Contacts lists everyone the admin can chat with.
func (s *ChatService) Contacts(ctx context.Context) ([]domain.Identity, error) {
	id := s.app.State().Identity
	if id == nil {
		return nil, domain.ErrNotLoggedIn
	}
	if id.Username != domain.AdminUsername {
		return nil, domain.ErrForbidden
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("load chat contacts failed")
		return nil, fmt.Errorf("load contacts: %w", err)
	}
	contacts := make([]domain.Identity, 0, len(users))
	for _, u := range users {
		if u.Username != domain.AdminUsername {
			contacts = append(contacts, u)
		}
	}
	return contacts, nil
}

// Send appends a message to the room shared with other. Blank text is ignored.
// Nothing is added locally: the message shows up with the next snapshot.
func (s *ChatService) Send(ctx context.Context, other, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	id := s.app.State().Identity
	if id == nil {
		return domain.ErrNotLoggedIn
	}
	peer, err := s.Peer(other)
	if err != nil {
		return err
	}

	room := domain.RoomID(id.Username, peer)
	msg := domain.ChatMessage{
		Text:      text,
		Sender:    id.Username,
		Receiver:  peer,
		Timestamp: s.now().UnixMilli(),
	}
	if _, err := s.store.Append(ctx, domain.RoomPath(room), msg); err != nil {
		s.log.Error().Err(err).Str("room", room).Msg("send message failed")
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// Open subscribes to the room shared with other. onUpdate receives every
// snapshot, newest message first. The subscription ends on Close or when ctx
// is done, whichever happens first.
func (s *ChatService) Open(ctx context.Context, other string, onUpdate func([]domain.ChatMessage)) (ports.Conversation, error) {
	id := s.app.State().Identity
	if id == nil {
		return nil, domain.ErrNotLoggedIn
	}
	peer, err := s.Peer(other)
	if err != nil {
		return nil, err
	}

	c := &conversation{room: domain.RoomID(id.Username, peer), onUpdate: onUpdate}
	sub, err := s.store.Subscribe(ctx, domain.RoomPath(c.room), c.deliver)
	if err != nil {
		s.log.Error().Err(err).Str("room", c.room).Msg("subscribe failed")
		return nil, fmt.Errorf("open chat: %w", err)
	}
	c.sub = sub
	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	c.mu.Lock()
	c.stop = stop
	c.mu.Unlock()
	s.log.Debug().Str("room", c.room).Msg("chat opened")
	return c, nil
}

type conversation struct {
	room     string
	onUpdate func([]domain.ChatMessage)
	sub      ports.Subscription

	mu       sync.Mutex
	messages []domain.ChatMessage
	closed   bool
	stop     func() bool

	once     sync.Once
	closeErr error
}

func (c *conversation) Room() string { return c.room }

func (c *conversation) Messages() []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.messages
}

func (c *conversation) deliver(snapshot []domain.ChatMessage) {
	display := domain.DisplayOrder(snapshot)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.messages = display
	c.mu.Unlock()

	if c.onUpdate != nil {
		c.onUpdate(display)
	}
}

// Close releases the subscription exactly once.
func (c *conversation) Close() error {
	c.once.Do(func() {
		c.mu.Lock()
		c.closed = true
		stop := c.stop
		c.mu.Unlock()
		if stop != nil {
			stop()
		}
		c.closeErr = c.sub.Unsubscribe()
	})
	return c.closeErr
}
