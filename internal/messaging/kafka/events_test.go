package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dualtech/ordenes-api/internal/domain"
)

func TestNewOrderEvent(t *testing.T) {
	before := time.Now()
	event := NewOrderEvent(EventTypeOrderCreated, 7, 3, map[string]interface{}{"total": 230.0})

	assert.Equal(t, EventTypeOrderCreated, event.EventType)
	assert.Equal(t, domain.ID(7), event.OrderID)
	assert.Equal(t, domain.ID(3), event.ClientID)
	assert.False(t, event.Timestamp.Before(before))
	assert.Equal(t, 230.0, event.Metadata["total"])
}

func TestOrderEventJSON(t *testing.T) {
	event := NewOrderEvent(EventTypeOrderRejected, 7, 3, nil)

	raw, err := json.Marshal(event)
	require.NoError(t, err)

	// Идентификаторы сериализуются строками, metadata опускается.
	assert.Contains(t, string(raw), `"event_type":"order.rejected"`)
	assert.Contains(t, string(raw), `"order_id":"7"`)
	assert.Contains(t, string(raw), `"client_id":"3"`)
	assert.NotContains(t, string(raw), "metadata")
}

func TestOutboxPublisher_NotInitialized(t *testing.T) {
	publisher := NewOutboxPublisher(nil, "")

	err := publisher.Publish(domain.OutboxMessage{ID: "m1", EventType: "order.created"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestNewOutboxPublisher_DefaultTopic(t *testing.T) {
	publisher := NewOutboxPublisher(nil, "")

	topicPublisher, ok := publisher.(*OutboxTopicPublisher)
	require.True(t, ok)
	assert.Equal(t, TopicOrderEvents, topicPublisher.topic)
}
