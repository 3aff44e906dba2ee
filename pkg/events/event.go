package events

import "time"

// Event is the contract every system event satisfies.
type Event interface {
	// EventType returns the unique code for this event (e.g. "COACHING_TEXT_READY").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is a plain implementation for events that carry no behavior of
// their own.
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

// Event type codes published on the notification bus.
const (
	TypeSessionUploaded   = "SESSION_UPLOADED"
	TypeCoachingTextReady = "COACHING_TEXT_READY"
	TypeCoachingCompleted = "COACHING_COMPLETED"
	TypePipelineFailed    = "PIPELINE_FAILED"
)
