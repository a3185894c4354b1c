package store

import "sync"

type EventKind int

const (
	EventFetched EventKind = iota + 1
	EventAdded
	EventUpdated
	EventRemoved
	EventInvalidated
)

func (k EventKind) String() string {
	switch k {
	case EventFetched:
		return "fetched"
	case EventAdded:
		return "added"
	case EventUpdated:
		return "updated"
	case EventRemoved:
		return "removed"
	case EventInvalidated:
		return "invalidated"
	}
	return "unknown"
}

// Event tells subscribers the cache changed. ID is empty for fetches and
// invalidations.
type Event struct {
	Kind EventKind
	ID   string
}

const subscriberBuffer = 16

// hub fans events out to subscribers. A subscriber that falls behind
// misses events rather than blocking the store.
type hub struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Event
}

func (h *hub) subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs == nil {
		h.subs = make(map[int]chan Event)
	}
	id := h.next
	h.next++
	ch := make(chan Event, subscriberBuffer)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}

func (h *hub) publish(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
