package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ASSISTANT_TURN_RECORDED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type codes
const (
	TypeTurnRecorded     = "ASSISTANT_TURN_RECORDED"
	TypeDocumentIngested = "KNOWLEDGE_DOCUMENT_INGESTED"
	TypeSessionDeleted   = "ASSISTANT_SESSION_DELETED"
)

// BaseEvent is the common implementation used by all emitters.
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

// NewTurnRecorded builds the event emitted after every processed message.
func NewTurnRecorded(sessionID string, intentLabel string, numDocs int) Event {
	return BaseEvent{
		Type: TypeTurnRecorded,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"intent":     intentLabel,
			"num_docs":   numDocs,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentIngested builds the event emitted after a document is embedded.
func NewDocumentIngested(source string, namespace string, chunks int) Event {
	return BaseEvent{
		Type: TypeDocumentIngested,
		Data: map[string]interface{}{
			"source":    source,
			"namespace": namespace,
			"chunks":    chunks,
		},
		OccurredAt: time.Now(),
	}
}

// NewSessionDeleted builds the event emitted when a session is removed.
func NewSessionDeleted(sessionID string) Event {
	return BaseEvent{
		Type: TypeSessionDeleted,
		Data: map[string]interface{}{
			"session_id": sessionID,
		},
		OccurredAt: time.Now(),
	}
}
