// Package events is a small in-process pub/sub feed for the ops websocket.
package events

import (
	"sync"
	"time"
)

// Event types published by the router and ledgers.
const (
	TypeMessageHandled = "message_handled"
	TypeCommand        = "command"
	TypeTodoAdded      = "todo_added"
	TypeTodoCompleted  = "todo_completed"
	TypeFactStored     = "fact_stored"
	TypeModelError     = "model_error"
)

type Event struct {
	Type   string    `json:"type"`
	ChatID string    `json:"chat_id,omitempty"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// Bus fans events out to subscribers. Slow subscribers drop events instead
// of blocking publishers.
type Bus struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe returns a receive channel and a cancel func that closes it.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 64)
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish stamps and delivers the event to every subscriber.
func (b *Bus) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// SubscriberCount reports the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
