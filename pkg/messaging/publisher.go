// Package messaging defines the events the catalog publishes after committed changes.
package messaging

import (
	"context"
)

const (
	// CatalogStream is the JetStream stream holding catalog change events.
	CatalogStream = "CATALOG"
	// CategoryChangedSubject carries CategoryChangedEvent.
	CategoryChangedSubject = "catalog.categories.changed"
	// ProductChangedSubject carries ProductChangedEvent.
	ProductChangedSubject = "catalog.products.changed"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

// Identified is implemented by events that name the change they describe. Brokers that
// deduplicate use the ID so a republished change is stored once.
type Identified interface {
	MessageID() string
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
