package sse

import (
	"sync"
)

// AllTopics subscribes to every published event.
const AllTopics = "*"

// Event represents an SSE event to be sent to subscribers
type Event struct {
	Topic string
	Event string
	Data  interface{}
}

// Hub fans change events out to subscribers keyed by topic (a workplace id).
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a subscriber for topic and returns the event channel and cleanup function.
// An empty topic is the same as AllTopics.
func (h *Hub) Subscribe(topic string) (chan Event, func()) {
	if topic == "" {
		topic = AllTopics
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 16)

	if h.subscribers[topic] == nil {
		h.subscribers[topic] = make(map[chan Event]struct{})
	}
	h.subscribers[topic][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[topic], ch)
			close(ch)
			if len(h.subscribers[topic]) == 0 {
				delete(h.subscribers, topic)
			}
		})
	}

	return ch, cleanup
}

// Publish delivers event once to every subscriber of any of topics and to
// wildcard subscribers. Slow subscribers miss events instead of blocking.
func (h *Hub) Publish(topics []string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := make(map[chan Event]struct{})
	deliver := func(topic string) {
		for ch := range h.subscribers[topic] {
			if _, done := sent[ch]; done {
				continue
			}
			sent[ch] = struct{}{}

			ev := event
			ev.Topic = topic
			select {
			case ch <- ev:
			default:
			}
		}
	}

	for _, topic := range topics {
		if topic == "" || topic == AllTopics {
			continue
		}
		deliver(topic)
	}
	deliver(AllTopics)
}

// SubscriberCount returns the number of active subscribers for a topic
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers[topic])
}

// TotalSubscribers returns the total number of active subscribers across all topics
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
