package events

import (
	"encoding/json"
	"testing"

	"github.com/abgdnv/gocatalog/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvents_MessageID(t *testing.T) {
	testCases := []struct {
		name    string
		event   messaging.Event
		subject string
		id      string
	}{
		{
			name:    "product adjusted",
			event:   ProductChangedEvent{Change: Updated, ProductID: 7, Version: 3, Price: "4.00"},
			subject: messaging.ProductChangedSubject,
			id:      "product-7-v3-updated",
		},
		{
			name:    "category deleted",
			event:   CategoryChangedEvent{Change: Deleted, CategoryID: 2, Version: 5},
			subject: messaging.CategoryChangedSubject,
			id:      "category-2-v5-deleted",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			identified, ok := tc.event.(messaging.Identified)
			require.True(t, ok)
			assert.Equal(t, tc.id, identified.MessageID())
			assert.Equal(t, tc.subject, tc.event.Subject())
		})
	}
}

func TestProductChangedEvent_Payload(t *testing.T) {
	// given
	event := ProductChangedEvent{Change: Created, ProductID: 1, Name: "Cola", Quantity: 100, Price: "3.50", Version: 1}

	// when
	data, err := event.Payload()

	// then
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "3.50", decoded["price"])
	assert.Equal(t, "created", decoded["change"])
	assert.NotContains(t, decoded, "carrier")
}
