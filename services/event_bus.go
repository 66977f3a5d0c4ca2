package services

import (
	"sync"
	"time"
)

const (
	EventSignedUp          = "auth.signed_up"
	EventSignedIn          = "auth.signed_in"
	EventSignedOut         = "auth.signed_out"
	EventPasswordReset     = "auth.password_reset"
	EventAnalysisCreated   = "analysis.created"
	EventAnalysisDeleted   = "analysis.deleted"
	EventHealthTestCreated = "health_test.created"
	EventHealthTestDeleted = "health_test.deleted"
)

// Event is a change notification for one user.
type Event struct {
	Kind    string    `json:"kind"`
	UserID  uint      `json:"user_id"`
	Payload any       `json:"payload,omitempty"`
	At      time.Time `json:"at"`
}

// EventBus fans events out to subscribers synchronously, in publish order
// per publisher.
type EventBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[int]func(Event))}
}

// Subscribe registers fn and returns a function that removes it.
func (b *EventBus) Subscribe(fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish is safe to call on a nil bus.
func (b *EventBus) Publish(e Event) {
	if b == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.RLock()
	fns := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}
