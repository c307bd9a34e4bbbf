package events

import (
	"sync"
	"sync/atomic"
)

// SubscriberBuffer is the number of events a subscriber can fall behind
// before new events are dropped for it.
const SubscriberBuffer = 16

// Hub fans serialized events out to SSE streams and in-process listeners.
// Publish never blocks on a slow subscriber.
type Hub struct {
	mu      sync.RWMutex
	subs    map[chan string]struct{}
	closed  bool
	dropped atomic.Uint64
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan string]struct{})}
}

// Subscribe registers a new listener. On a closed hub the returned channel
// is already closed.
func (h *Hub) Subscribe() chan string {
	ch := make(chan string, SubscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
	} else {
		h.subs[ch] = struct{}{}
	}
	return ch
}

// Unsubscribe removes ch and closes it. Unknown channels are ignored.
func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}

func (h *Hub) Publish(evt string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- evt:
		default:
			h.dropped.Add(1)
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped counts deliveries skipped because a subscriber's buffer was full.
func (h *Hub) Dropped() uint64 { return h.dropped.Load() }

// Close disconnects every subscriber. Later publishes are no-ops.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		close(ch)
	}
	clear(h.subs)
}
