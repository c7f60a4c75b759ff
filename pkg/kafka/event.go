package kafka

import (
	"time"

	"github.com/google/uuid"
)

// Event is the envelope published to Kafka for every domain event.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Source     string    `json:"source"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// NewEvent creates an event envelope with a generated ID and current timestamp.
func NewEvent(eventType, source string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Source:     source,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}
