package realtime

import (
	"sync"

	"github.com/panjf2000/ants/v2"
)

const subscriberBuffer = 16

// Broadcaster fans events out to topic subscribers. Delivery happens on
// a shared bounded worker pool so publishers never block on slow
// subscribers; a subscriber whose buffer is full misses the event and
// is expected to reconcile from the repository on its next read.
type Broadcaster[T any] struct {
	mu     sync.Mutex
	topics map[string]map[chan T]struct{}
	pool   *ants.Pool
}

// NewBroadcaster creates a broadcaster delivering through a pool of at
// most workers goroutines.
func NewBroadcaster[T any](workers int) (*Broadcaster[T], error) {
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers, ants.WithNonblocking(false))
	if err != nil {
		return nil, err
	}
	return &Broadcaster[T]{
		topics: make(map[string]map[chan T]struct{}),
		pool:   pool,
	}, nil
}

// Subscribe registers a new subscriber on a topic and returns its
// event channel.
func (b *Broadcaster[T]) Subscribe(topic string) chan T {
	ch := make(chan T, subscriberBuffer)
	b.mu.Lock()
	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[chan T]struct{})
		b.topics[topic] = subs
	}
	subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel. Safe to call
// twice.
func (b *Broadcaster[T]) Unsubscribe(topic string, ch chan T) {
	b.mu.Lock()
	if subs, ok := b.topics[topic]; ok {
		if _, member := subs[ch]; member {
			delete(subs, ch)
			close(ch)
		}
		if len(subs) == 0 {
			delete(b.topics, topic)
		}
	}
	b.mu.Unlock()
}

// Publish delivers an event to every current subscriber of a topic.
// Returns without waiting for delivery.
func (b *Broadcaster[T]) Publish(topic string, event T) {
	err := b.pool.Submit(func() {
		b.deliver(topic, event)
	})
	if err != nil {
		// Pool is released; deliver inline rather than drop.
		b.deliver(topic, event)
	}
}

func (b *Broadcaster[T]) deliver(topic string, event T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.topics[topic] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Close releases the delivery pool. Subscribers keep their channels;
// no further events are delivered.
func (b *Broadcaster[T]) Close() {
	b.pool.Release()
}
