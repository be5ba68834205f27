package events

import (
	"context"
	"sync"
)

const hubBufferSize = 16

// Hub fans events out to in-process subscribers such as websocket feeds.
// Slow subscribers drop events instead of blocking publishers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan ModerationEvent]struct{}
}

// NewHub constructs an empty hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[chan ModerationEvent]struct{})}
}

// Publish implements Publisher.
func (h *Hub) Publish(_ context.Context, event ModerationEvent) error {
	h.Broadcast(event)
	return nil
}

// Broadcast delivers the event to every current subscriber.
func (h *Hub) Broadcast(event ModerationEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe registers a subscriber. The returned function unsubscribes and closes the channel.
func (h *Hub) Subscribe() (<-chan ModerationEvent, func()) {
	ch := make(chan ModerationEvent, hubBufferSize)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
