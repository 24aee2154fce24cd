package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

const defaultBuffer = 8

// Event is a single server-sent event addressed to one subscriber key.
type Event struct {
	Key   string
	Event string
	Data  interface{}
}

// Hub fans events out to subscribers grouped by key (an employee id).
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	buffer      int
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
		buffer:      defaultBuffer,
	}
}

// Subscribe registers a channel under key. The returned cleanup must be
// called exactly once; it unregisters and closes the channel.
func (h *Hub) Subscribe(key string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.buffer)
	if h.subscribers[key] == nil {
		h.subscribers[key] = make(map[chan Event]struct{})
	}
	h.subscribers[key][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[key], ch)
			close(ch)
			if len(h.subscribers[key]) == 0 {
				delete(h.subscribers, key)
			}
		})
	}

	return ch, cleanup
}

// Publish delivers ev to every subscriber of ev.Key. Slow subscribers whose
// buffer is full miss the event; it returns how many received it.
func (h *Hub) Publish(ev Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for ch := range h.subscribers[ev.Key] {
		select {
		case ch <- ev:
			delivered++
		default:
		}
	}
	return delivered
}

func (h *Hub) SubscriberCount(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[key])
}

func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}

// Write frames ev in text/event-stream format.
func Write(w io.Writer, ev Event) error {
	payload, err := json.Marshal(ev.Data)
	if err != nil {
		return fmt.Errorf("marshal sse payload: %w", err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Event, payload)
	return err
}

// WriteComment writes a comment line, used as a keep-alive.
func WriteComment(w io.Writer, comment string) error {
	_, err := fmt.Fprintf(w, ": %s\n\n", comment)
	return err
}
