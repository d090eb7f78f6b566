// Package pubsub fans out repository change notices to any number of
// listeners (the watch command, tests).
package pubsub

import (
	"context"
	"time"
)

// EventType names what happened to a writing system.
type EventType string

const (
	CreatedEvent   EventType = "created"
	UpdatedEvent   EventType = "updated"
	RenamedEvent   EventType = "renamed"
	DeletedEvent   EventType = "deleted"
	ConflatedEvent EventType = "conflated"
	ReloadedEvent  EventType = "reloaded"
)

// Event is a published notice with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher publishes events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
