// Package event defines the events raised over a short link's lifetime.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is implemented by every link event.
type Event interface {
	EventID() string
	EventName() string
	OccurredAt() time.Time
	// AggregateID is the alias of the link the event concerns.
	AggregateID() string
}

// Base carries the identity shared by all link events. IDs are UUIDv7 so
// they sort by creation time.
type Base struct {
	ID      string    `json:"event_id"`
	At      time.Time `json:"occurred_at"`
	Subject string    `json:"aggregate_id"`
}

func NewBase(alias string) Base {
	return Base{
		ID:      uuid.Must(uuid.NewV7()).String(),
		At:      time.Now().UTC(),
		Subject: alias,
	}
}

func (b Base) EventID() string       { return b.ID }
func (b Base) OccurredAt() time.Time { return b.At }
func (b Base) AggregateID() string   { return b.Subject }
