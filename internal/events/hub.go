package events

import "sync"

const DefaultSubscriberBuffer = 16

// Hub fans events out to in-process subscribers (external indexers attach
// here). Slow subscribers drop events rather than block publishers.
type Hub struct {
	mu               sync.Mutex
	subs             map[uint64]chan Event
	nextID           uint64
	subscriberBuffer int
}

type Subscription struct {
	hub  *Hub
	id   uint64
	ch   chan Event
	once sync.Once
}

func NewHub() *Hub {
	return &Hub{
		subs:             make(map[uint64]chan Event),
		subscriberBuffer: DefaultSubscriberBuffer,
	}
}

func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}
	h.mu.Lock()
	subs := make([]chan Event, 0, len(h.subs))
	for _, ch := range h.subs {
		subs = append(subs, ch)
	}
	h.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}

func (h *Hub) Subscribe() *Subscription {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	ch := make(chan Event, h.subscriberBuffer)
	h.subs[id] = ch
	h.mu.Unlock()

	return &Subscription{hub: h, id: id, ch: ch}
}

func (s *Subscription) Events() <-chan Event { return s.ch }

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s.id)
		s.hub.mu.Unlock()
		close(s.ch)
	})
}
