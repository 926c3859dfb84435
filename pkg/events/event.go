package events

import "time"

// Event defines the contract for all domain events.
type Event interface {
	// EventType returns the routing key for this event (e.g., "quality:assessed").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event was emitted.
	Timestamp() time.Time
}

// BaseEvent is a generic event for payloads that do not need a dedicated type.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
