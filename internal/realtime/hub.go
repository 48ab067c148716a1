// Package realtime fans mutation events out to subscribers of a product
// room. Delivery is best-effort, at-most-once: publishing never blocks a
// request, and a slow subscriber loses events instead of stalling writers.
package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// Event actions published to product rooms.
const (
	ActionUpdated      = "clipboard-updated"
	ActionShared       = "clipboard-shared"
	ActionShareUpdated = "clipboard-share-updated"
	ActionShareRemoved = "clipboard-share-removed"
)

// Event is a room-scoped mutation notification.
type Event struct {
	Action    string      `json:"action"`
	ProductID string      `json:"productId"`
	EntryID   string      `json:"entryId,omitempty"`
	Entry     interface{} `json:"entry,omitempty"`
}

const subscriberBuffer = 16

// Hub is the process-scoped room registry. Created once at startup; no
// state is shared across requests beyond the publish/subscribe contract.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[chan Event]struct{}
	logger *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[chan Event]struct{}),
		logger: logger,
	}
}

// Subscribe registers a new subscriber channel on a room.
func (h *Hub) Subscribe(room string) chan Event {
	ch := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.rooms[room]
	if !ok {
		subs = make(map[chan Event]struct{})
		h.rooms[room] = subs
	}
	subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(room string, ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.rooms[room]
	if !ok {
		return
	}
	if _, ok := subs[ch]; !ok {
		return
	}
	delete(subs, ch)
	close(ch)
	if len(subs) == 0 {
		delete(h.rooms, room)
	}
}

// Publish delivers an event to every subscriber of a room without
// blocking. Full subscriber buffers drop the event.
func (h *Hub) Publish(room string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.rooms[room] {
		select {
		case ch <- ev:
		default:
			h.logger.Debug("dropped realtime event",
				zap.String("room", room),
				zap.String("action", ev.Action))
		}
	}
}

// SubscriberCount reports the number of subscribers in a room.
func (h *Hub) SubscriberCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
