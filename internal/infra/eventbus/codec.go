package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"linker/internal/shortener/domain/event"

	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	metadataEventName   = "event_name"
	metadataAggregateID = "aggregate_id"
)

// Envelope is the wire form of a link event.
type Envelope struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	AggregateID string          `json:"aggregate_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

// Decode unmarshals the event payload into v.
func (e *Envelope) Decode(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// Encode wraps e in an Envelope and returns it as a message keyed by the
// event id. The event name is copied to metadata so consumers can skip
// events they do not handle without decoding them.
func Encode(e event.Event) (*message.Message, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", e.EventName(), err)
	}

	data, err := json.Marshal(Envelope{
		ID:          e.EventID(),
		Name:        e.EventName(),
		AggregateID: e.AggregateID(),
		OccurredAt:  e.OccurredAt(),
		Payload:     payload,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", e.EventName(), err)
	}

	msg := message.NewMessage(e.EventID(), data)
	msg.Metadata = message.Metadata{
		metadataEventName:   e.EventName(),
		metadataAggregateID: e.AggregateID(),
	}
	return msg, nil
}

// Decode reads the Envelope carried by msg.
func Decode(msg *message.Message) (*Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal envelope %s: %w", msg.UUID, err)
	}
	return &envelope, nil
}

// EventName returns the event name recorded in msg metadata.
func EventName(msg *message.Message) string {
	return msg.Metadata.Get(metadataEventName)
}
