// Package realtime implements the change-notification channel. Events carry
// no payload beyond "something changed"; subscribers use them purely as
// refresh triggers and must never patch local state from them.
package realtime

import "sync"

// Event identifies a change to a named resource.
type Event struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
	RecordID string `json:"record_id,omitempty"`
}

const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

const subscriberBuffer = 16

// Hub fans change events out to resource subscribers. Publishing never
// blocks: a subscriber that cannot keep up misses events, which is safe
// because subscribers re-fetch the full list on any event.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[string]map[uint64]chan Event
	closed bool
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[uint64]chan Event)}
}

// Subscribe registers interest in one resource and returns the event channel
// together with an unsubscribe function. The unsubscribe function must be
// called when the observer is torn down; it closes the channel.
func (h *Hub) Subscribe(resource string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.nextID++
	id := h.nextID
	if h.subs[resource] == nil {
		h.subs[resource] = make(map[uint64]chan Event)
	}
	h.subs[resource][id] = ch
	h.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			if subscribers, ok := h.subs[resource]; ok {
				delete(subscribers, id)
				if len(subscribers) == 0 {
					delete(h.subs, resource)
				}
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, unsubscribe
}

// Publish delivers an event to every subscriber of its resource. Slow
// subscribers are skipped rather than blocked on.
func (h *Hub) Publish(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	for _, ch := range h.subs[event.Resource] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Close tears down the hub. Subsequent publishes are dropped and subsequent
// subscriptions return a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for resource, subscribers := range h.subs {
		for id, ch := range subscribers {
			delete(subscribers, id)
			close(ch)
		}
		delete(h.subs, resource)
	}
}
