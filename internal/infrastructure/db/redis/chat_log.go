package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/teris-io/shortid"

	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

// ChatLog is the realtime room log. Each room path is a Redis list of JSON
// messages; every append is announced on a channel named after the path so
// subscribers can re-read the whole list.
type ChatLog struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewChatLog(client *redis.Client, log zerolog.Logger) *ChatLog {
	return &ChatLog{client: client, log: log}
}

// Append pushes msg to the room and notifies subscribers. It returns the
// generated message id.
func (l *ChatLog) Append(ctx context.Context, path string, msg domain.ChatMessage) (string, error) {
	id, err := shortid.Generate()
	if err != nil {
		return "", fmt.Errorf("generate message id: %w", err)
	}
	msg.ID = id

	payload, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("encode message: %w", err)
	}

	_, err = l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, path, payload)
		pipe.Publish(ctx, path, id)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", path, err)
	}
	return id, nil
}

// Subscribe delivers the current snapshot of the room and a fresh one after
// every append until the subscription is released or ctx is done.
func (l *ChatLog) Subscribe(ctx context.Context, path string, fn func([]domain.ChatMessage)) (ports.Subscription, error) {
	ps := l.client.Subscribe(ctx, path)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", path, err)
	}

	snapshot, err := l.snapshot(ctx, path)
	if err != nil {
		_ = ps.Close()
		return nil, err
	}
	fn(snapshot)

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sub := &subscription{ps: ps, cancel: cancel}
	go l.watch(loopCtx, path, ps.Channel(), fn)
	context.AfterFunc(ctx, func() { _ = sub.Unsubscribe() })
	return sub, nil
}

func (l *ChatLog) watch(ctx context.Context, path string, ch <-chan *redis.Message, fn func([]domain.ChatMessage)) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			snapshot, err := l.snapshot(ctx, path)
			if err != nil {
				l.log.Error().Err(err).Str("path", path).Msg("reload room failed")
				continue
			}
			if ctx.Err() != nil {
				return
			}
			fn(snapshot)
		}
	}
}

func (l *ChatLog) snapshot(ctx context.Context, path string) ([]domain.ChatMessage, error) {
	raw, err := l.client.LRange(ctx, path, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	msgs := make([]domain.ChatMessage, 0, len(raw))
	for _, r := range raw {
		var m domain.ChatMessage
		if err := json.Unmarshal([]byte(r), &m); err != nil {
			l.log.Warn().Err(err).Str("path", path).Msg("skipping malformed message")
			continue
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

type subscription struct {
	ps     *redis.PubSub
	cancel context.CancelFunc
	once   sync.Once
	err    error
}

func (s *subscription) Unsubscribe() error {
	s.once.Do(func() {
		s.cancel()
		s.err = s.ps.Close()
	})
	return s.err
}
