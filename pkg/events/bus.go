package events

import (
	"context"
	"fmt"
	"sync"
)

// Handler processes one event. A returned error stops dispatch and is handed
// back to the emitter.
type Handler func(ctx context.Context, event Event) error

// Bus is a synchronous, in-process publish/subscribe dispatcher keyed by
// event type. Handlers run on the emitter's goroutine in registration order.
// Nothing is persisted, so handlers must tolerate duplicate delivery.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
	}
}

// Subscribe registers a handler for an exact event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeMultiple registers one handler for several event types.
func (b *Bus) SubscribeMultiple(eventTypes []string, handler Handler) {
	for _, eventType := range eventTypes {
		b.Subscribe(eventType, handler)
	}
}

// Emit delivers the event to every handler registered for its type.
func (b *Bus) Emit(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.EventType()]))
	copy(handlers, b.handlers[event.EventType()])
	b.mu.RUnlock()

	for i, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			return fmt.Errorf("handler %d for %s: %w", i, event.EventType(), err)
		}
	}
	return nil
}

// HandlerCount reports how many handlers are registered for eventType.
func (b *Bus) HandlerCount(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.handlers[eventType])
}
