package dto

import "github.com/google/uuid"

// PipelineTriggerMessage is the payload on the durable NATS trigger subject.
type PipelineTriggerMessage struct {
	SessionId uuid.UUID `json:"session_id"`
}

// DeliveryEventMessage travels the in-process delivery bus before being
// forwarded to the external event stream.
type DeliveryEventMessage struct {
	EventType string    `json:"event_type"`
	SessionId uuid.UUID `json:"session_id"`
	UserId    uuid.UUID `json:"user_id"`
	Detail    string    `json:"detail,omitempty"`
}
