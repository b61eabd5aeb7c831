package notify

import (
	"context"
	"sync"
)

// Subscriber streams notifications to one listener. The returned cancel func
// ends the subscription and closes the channel.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan Notification, func())
}

// Hub broadcasts notifications to in-process subscribers. A subscriber that
// falls behind by more than its buffer misses notifications rather than
// blocking the sender.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan Notification]struct{}
	buffer int
}

func NewHub(buffer int) *Hub {
	return &Hub{subs: make(map[chan Notification]struct{}), buffer: max(buffer, 1)}
}

func (h *Hub) Notify(_ context.Context, n Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- n:
		default:
		}
	}
}

func (h *Hub) Subscribe(ctx context.Context) (<-chan Notification, func()) {
	ch := make(chan Notification, h.buffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := sync.OnceFunc(func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, ch)
		close(ch)
	})
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ch, cancel
}

// Subscribers returns the number of active subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
