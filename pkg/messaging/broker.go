package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Message is the envelope published for every outbox event.
type Message struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Topic derives the broker channel for an event type, e.g.
// ("hospital", "APPOINTMENT_BOOKED") -> "hospital.appointment_booked".
func Topic(prefix, eventType string) string {
	name := strings.ToLower(eventType)
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// Encode marshals a message unless it is already raw bytes.
func Encode(message interface{}) ([]byte, error) {
	switch m := message.(type) {
	case []byte:
		return m, nil
	case json.RawMessage:
		return m, nil
	}
	payload, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	return payload, nil
}
