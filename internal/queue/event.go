package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	EventContactCreated     = "contact.created"
	EventReservationCreated = "reservation.created"
	EventDigestRequested    = "digest.requested"
)

// Event is the envelope written to the stream. Payload is the JSON encoding
// of the entity or request that triggered it.
type Event struct {
	ID         string
	Type       string
	OccurredAt time.Time
	Payload    json.RawMessage
}

var ErrMalformedEvent = errors.New("malformed event")

func NewEvent(eventType string, payload any, now time.Time) (Event, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Event{}, fmt.Errorf("encode %s payload: %w", eventType, err)
		}
		raw = data
	}
	return Event{Type: eventType, OccurredAt: now.UTC(), Payload: raw}, nil
}

func (e Event) values() map[string]any {
	values := map[string]any{
		"type":       e.Type,
		"occurredAt": e.OccurredAt.Format(time.RFC3339Nano),
	}
	if len(e.Payload) > 0 {
		values["payload"] = string(e.Payload)
	}
	return values
}

// DecodeEvent rebuilds an event from the field map of a stream entry.
func DecodeEvent(id string, values map[string]any) (Event, error) {
	eventType, _ := values["type"].(string)
	if eventType == "" {
		return Event{}, fmt.Errorf("%w: %s has no type", ErrMalformedEvent, id)
	}

	event := Event{ID: id, Type: eventType}
	if raw, ok := values["occurredAt"].(string); ok && raw != "" {
		at, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return Event{}, fmt.Errorf("%w: %s occurredAt: %v", ErrMalformedEvent, id, err)
		}
		event.OccurredAt = at
	}
	if raw, ok := values["payload"].(string); ok && raw != "" {
		if !json.Valid([]byte(raw)) {
			return Event{}, fmt.Errorf("%w: %s payload is not json", ErrMalformedEvent, id)
		}
		event.Payload = json.RawMessage(raw)
	}
	return event, nil
}

// Decode unmarshals the payload into out.
func (e Event) Decode(out any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("%w: %s has no payload", ErrMalformedEvent, e.Type)
	}
	if err := json.Unmarshal(e.Payload, out); err != nil {
		return fmt.Errorf("%w: %s payload: %v", ErrMalformedEvent, e.Type, err)
	}
	return nil
}
