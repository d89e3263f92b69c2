// Package events contains the catalog change events.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/abgdnv/gocatalog/pkg/messaging"
)

// Change names what happened to an entity.
type Change string

const (
	Created Change = "created"
	Updated Change = "updated"
	Deleted Change = "deleted"
)

// CategoryChangedEvent is published after a category is created, updated or deleted.
type CategoryChangedEvent struct {
	Carrier    map[string]string `json:"carrier,omitempty"`
	Change     Change            `json:"change"`
	CategoryID int64             `json:"category_id"`
	Name       string            `json:"name,omitempty"`
	Size       string            `json:"size,omitempty"`
	Packaging  string            `json:"packaging,omitempty"`
	Version    int64             `json:"version,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

func (e CategoryChangedEvent) Subject() string {
	return messaging.CategoryChangedSubject
}

func (e CategoryChangedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// MessageID is unique per category, version and kind of change.
func (e CategoryChangedEvent) MessageID() string {
	return fmt.Sprintf("category-%d-v%d-%s", e.CategoryID, e.Version, e.Change)
}

// ProductChangedEvent is published after a product is created or adjusted.
// Price is the decimal string form to keep it exact.
type ProductChangedEvent struct {
	Carrier    map[string]string `json:"carrier,omitempty"`
	Change     Change            `json:"change"`
	ProductID  int64             `json:"product_id"`
	Name       string            `json:"name"`
	CategoryID int64             `json:"category_id"`
	Quantity   int64             `json:"quantity"`
	Price      string            `json:"price"`
	Version    int64             `json:"version"`
	OccurredAt time.Time         `json:"occurred_at"`
}

func (e ProductChangedEvent) Subject() string {
	return messaging.ProductChangedSubject
}

func (e ProductChangedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// MessageID is unique per product, version and kind of change.
func (e ProductChangedEvent) MessageID() string {
	return fmt.Sprintf("product-%d-v%d-%s", e.ProductID, e.Version, e.Change)
}
