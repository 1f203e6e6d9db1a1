// Package events is the change broadcaster: product writes are
// re-published to every configured sink (Kafka topic, connected
// WebSocket listeners, the search index) after the HTTP response has
// been committed. Delivery is best-effort by contract; a failed or
// dropped event never affects the client.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

type Event struct {
	ID       string    `json:"id"`
	Op       Op        `json:"op"`
	Resource string    `json:"resource"`
	Data     any       `json:"data"`
	At       time.Time `json:"at"`

	// Key identifies the affected record for partitioning and index
	// addressing; it is not part of the serialized event body.
	Key string `json:"-"`
}

func New(op Op, resource, key string, data any) Event {
	return Event{
		ID:       uuid.NewString(),
		Op:       op,
		Resource: resource,
		Data:     data,
		At:       time.Now().UTC(),
		Key:      key,
	}
}

// Sink delivers one event to an external destination.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, ev Event) error
}

const deliverTimeout = 5 * time.Second

// Broadcaster decouples publication from the request path: Publish
// enqueues and returns immediately, a single goroutine drains the queue
// into the sinks.
type Broadcaster struct {
	log   *slog.Logger
	sinks []Sink
	ch    chan Event
	done  chan struct{}
}

func NewBroadcaster(log *slog.Logger, sinks ...Sink) *Broadcaster {
	b := &Broadcaster{
		log:   log,
		sinks: sinks,
		ch:    make(chan Event, 64),
		done:  make(chan struct{}),
	}
	go b.run()
	return b
}

// Publish never blocks. When the queue is full the event is dropped and
// logged; there is no retry.
func (b *Broadcaster) Publish(ev Event) {
	select {
	case b.ch <- ev:
	default:
		b.log.Warn("event dropped, queue full", "op", ev.Op, "resource", ev.Resource, "key", ev.Key)
	}
}

func (b *Broadcaster) run() {
	defer close(b.done)
	for ev := range b.ch {
		for _, s := range b.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
			if err := s.Deliver(ctx, ev); err != nil {
				b.log.Error("event delivery failed", "sink", s.Name(), "op", ev.Op, "key", ev.Key, "error", err)
			}
			cancel()
		}
	}
}

// Close drains queued events and stops the dispatch loop.
func (b *Broadcaster) Close() {
	close(b.ch)
	<-b.done
}
