package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/oubuilding/apartment-client/internal/api/metrics"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Message is one outbound chat message read from a chat feed.
type Message struct {
	Room string
	Peer string
	Text string
	Chat ports.ChatService
	// Result receives the outcome of the send when non-nil. Workers never
	// wait on it: an outcome that does not fit in its buffer is dropped.
	Result chan<- error
}

// Dispatcher routes outbound chat messages to a fixed set of workers using
// consistent hashing on the room id, guaranteeing per-room send order without
// blocking the socket reader.
type Dispatcher struct {
	workers []chan Message
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan Message, numWorkers),
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan Message, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands msg to the worker responsible for its room. It blocks while
// that worker's buffer is full, until ctx is done.
func (d *Dispatcher) Enqueue(ctx context.Context, msg Message) error {
	idx := d.shardIndex(msg.Room)
	select {
	case d.workers[idx] <- msg:
		metrics.ChatQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a room id deterministically to a worker index.
func (d *Dispatcher) shardIndex(room string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(room))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Message) {
	depth := metrics.ChatQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			err := msg.Chat.Send(ctx, msg.Peer, msg.Text)
			if err != nil {
				metrics.ChatMessagesTotal.WithLabelValues("dropped").Inc()
				d.log.Error().Err(err).
					Str("room", msg.Room).
					Int("worker_id", id).
					Msg("chat send failed")
			} else {
				metrics.ChatMessagesTotal.WithLabelValues("sent").Inc()
			}
			if msg.Result != nil {
				select {
				case msg.Result <- err:
				default:
					d.log.Warn().Str("room", msg.Room).Msg("send outcome dropped, result channel full")
				}
			}
		}
	}
}
