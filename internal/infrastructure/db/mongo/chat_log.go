package mongo

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

const chatCollection = "chat_messages"

type chatDocument struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	Room               string             `bson:"room"`
	domain.ChatMessage `bson:",inline"`
}

// ChatLog implements ports.ChatStore on a MongoDB collection. Subscriptions
// are driven by a change stream, so the deployment must run as a replica set.
type ChatLog struct {
	coll *mongo.Collection
	log  zerolog.Logger
}

// NewChatLog creates a ChatLog on the chat_messages collection of db.
func NewChatLog(db *mongo.Database, log zerolog.Logger) *ChatLog {
	return &ChatLog{coll: db.Collection(chatCollection), log: log}
}

// EnsureIndexes creates the room index used by snapshot reads.
func (l *ChatLog) EnsureIndexes(ctx context.Context) error {
	_, err := l.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "room", Value: 1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create chat index: %w", err)
	}
	return nil
}

// Append inserts msg into the room and returns the id of the new document.
func (l *ChatLog) Append(ctx context.Context, path string, msg domain.ChatMessage) (string, error) {
	res, err := l.coll.InsertOne(ctx, chatDocument{Room: path, ChatMessage: msg})
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", path, err)
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

// Subscribe delivers the current snapshot of the room and a fresh one after
// every insert into it until the subscription is released or ctx is done.
func (l *ChatLog) Subscribe(ctx context.Context, path string, fn func([]domain.ChatMessage)) (ports.Subscription, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "operationType", Value: "insert"},
			{Key: "fullDocument.room", Value: path},
		}}},
	}
	stream, err := l.coll.Watch(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	snapshot, err := l.snapshot(ctx, path)
	if err != nil {
		_ = stream.Close(context.Background())
		return nil, err
	}
	fn(snapshot)

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sub := &subscription{cancel: cancel}
	go l.watch(loopCtx, path, stream, fn)
	context.AfterFunc(ctx, func() { _ = sub.Unsubscribe() })
	return sub, nil
}

// watch owns the stream: it is closed here once the loop ends.
func (l *ChatLog) watch(ctx context.Context, path string, stream *mongo.ChangeStream, fn func([]domain.ChatMessage)) {
	defer stream.Close(context.Background())
	for stream.Next(ctx) {
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
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		l.log.Error().Err(err).Str("path", path).Msg("change stream stopped")
	}
}

func (l *ChatLog) snapshot(ctx context.Context, path string) ([]domain.ChatMessage, error) {
	cur, err := l.coll.Find(ctx, bson.M{"room": path}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var docs []chatDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	msgs := make([]domain.ChatMessage, len(docs))
	for i, d := range docs {
		msgs[i] = d.ChatMessage
		msgs[i].ID = d.ID.Hex()
	}
	return msgs, nil
}

type subscription struct {
	cancel context.CancelFunc
}

func (s *subscription) Unsubscribe() error {
	s.cancel()
	return nil
}
