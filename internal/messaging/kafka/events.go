package kafka

import (
	"time"

	"github.com/dualtech/ordenes-api/internal/domain"
)

// EventType определяет тип события заказа.
type EventType string

const (
	// EventTypeOrderCreated — заказ создан и его суммы зафиксированы.
	EventTypeOrderCreated EventType = "order.created"
	// EventTypeOrderRejected — заказ отклонён валидацией или проверкой остатков.
	EventTypeOrderRejected EventType = "order.rejected"
)

// Topics для Kafka.
const (
	TopicOrderEvents     = "ordenes.order.events"
	TopicDeadLetterQueue = "ordenes.dlq"
)

// OrderEvent представляет событие жизненного цикла заказа.
type OrderEvent struct {
	EventType EventType              `json:"event_type"`
	OrderID   domain.ID              `json:"order_id"`
	ClientID  domain.ID              `json:"client_id"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewOrderEvent создаёт событие заказа с текущим timestamp.
func NewOrderEvent(eventType EventType, orderID, clientID domain.ID, metadata map[string]interface{}) *OrderEvent {
	return &OrderEvent{
		EventType: eventType,
		OrderID:   orderID,
		ClientID:  clientID,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}
