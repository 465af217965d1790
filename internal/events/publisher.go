package events

import (
	"context"
	"log"
)

// Publisher delivers one event to a broker. Implementations must be safe
// for use by a single relay goroutine; Publish is retried on error.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, body []byte) error
}

// LogPublisher writes events to the standard logger. It stands in for a
// broker in development.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, topic, key string, body []byte) error {
	log.Printf("Event %s (key %s): %s", topic, key, body)
	return nil
}
