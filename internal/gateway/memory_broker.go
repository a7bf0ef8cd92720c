package gateway

import (
	"context"
	"sync"
)

// subscriberBuffer bounds each subscriber channel. Events only mean
// "re-read this collection", so dropping one under backpressure coalesces
// with the next event for the same user.
const subscriberBuffer = 64

// MemoryBroker is an in-process Broker for single-node deployments and
// tests.
type MemoryBroker struct {
	mu     sync.Mutex
	subs   map[uint64]map[int]chan Event
	nextID int
	closed bool
}

// NewMemoryBroker creates a new MemoryBroker
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		subs: make(map[uint64]map[int]chan Event),
	}
}

// Publish announces a change to everyone subscribed to the user.
func (b *MemoryBroker) Publish(_ context.Context, event Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}

	for _, ch := range b.subs[event.UserID] {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe returns a channel of change events for one user.
func (b *MemoryBroker) Subscribe(_ context.Context, userID uint64) (<-chan Event, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if b.closed {
		close(ch)
		return ch, func() {}, nil
	}

	id := b.nextID
	b.nextID++

	if b.subs[userID] == nil {
		b.subs[userID] = make(map[int]chan Event)
	}
	b.subs[userID][id] = ch

	stop := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[userID][id]; ok {
			delete(b.subs[userID], id)
			close(sub)
		}
	}

	return ch, stop, nil
}

// Close releases all subscriptions.
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for _, chans := range b.subs {
		for _, ch := range chans {
			close(ch)
		}
	}
	b.subs = make(map[uint64]map[int]chan Event)
	return nil
}
