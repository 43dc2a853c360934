package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
)

// Event[T] names a per-session topic family and gives type-safe publishing
// for its payload T. Topics are "<namespace>.<sessionID>.<name>".
type Event[T any] struct {
	namespace string
	name      string
}

// NewEvent defines a typed event under namespace.
func NewEvent[T any](namespace, name string) Event[T] {
	return Event[T]{namespace: namespace, name: name}
}

// Name returns the event name without the session part.
func (e Event[T]) Name() string {
	return e.name
}

// Topic returns the concrete topic for one session.
func (e Event[T]) Topic(sessionID string) string {
	return fmt.Sprintf("%s.%s.%s", e.namespace, sessionID, e.name)
}

// Publish sends a typed event. The compiler ensures 'payload' matches 'T'.
func Publish[T any](ctx context.Context, p Publisher, event Event[T], sessionID string, payload T) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", event.name, err)
	}

	return p.Publish(ctx, Message{
		Topic:     event.Topic(sessionID),
		SessionID: sessionID,
		Payload:   data,
	})
}

// Decode unmarshals the payload of msg into T.
func Decode[T any](msg Message) (T, error) {
	var v T
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return v, fmt.Errorf("failed to decode %s payload: %w", msg.Topic, err)
	}
	return v, nil
}
