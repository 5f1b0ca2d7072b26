// Package events provides in-process pub/sub for booking lifecycle events.
package events

import (
	"sync"
	"time"
)

// Event types published by the booking engine.
const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"
)

// BookingEvent describes a committed booking mutation.
type BookingEvent struct {
	BookingID  string
	RoomID     string
	RoomName   string
	UserID     string
	OrgID      string
	OrgName    string
	Date       time.Time
	StartHour  int
	EndHour    int
	OccurredAt time.Time
}

// Handler reacts to a booking event.
type Handler func(eventType string, event BookingEvent)

// Bus fans booking events out to subscribers.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]Handler
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers a handler for a given event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type. Handlers run
// synchronously; the caller decides the concurrency model.
func (b *Bus) Publish(eventType string, event BookingEvent) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[eventType]...)
	b.mu.RUnlock()

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	for _, handler := range handlers {
		handler(eventType, event)
	}
}
