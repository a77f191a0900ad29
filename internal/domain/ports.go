package domain

import "time"

// ClientRepository описывает требования к хранилищу клиентов.
type ClientRepository interface {
	// Create сохраняет нового клиента, сервер назначает идентификатор.
	Create(client Client) (Client, error)
	// Get возвращает клиента по идентификатору или ErrClientNotFound.
	Get(id ID) (Client, error)
	// List возвращает всех клиентов в порядке идентификаторов.
	List() ([]Client, error)
	// Update применяет изменения к существующему клиенту.
	Update(client Client) (Client, error)
	// Delete удаляет клиента.
	Delete(id ID) error
}

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	Create(product Product) (Product, error)
	Get(id ID) (Product, error)
	List() ([]Product, error)
	Update(product Product) (Product, error)
	Delete(id ID) error
}

// OrderRepository описывает требования к хранилищу заказов и их позиций.
// Позиции принадлежат заказу: Delete удаляет заказ вместе с позициями.
type OrderRepository interface {
	// Create сохраняет новый заказ, сервер назначает идентификатор.
	Create(order Order) (Order, error)
	// Get возвращает заказ без позиций или ErrOrderNotFound.
	Get(id ID) (Order, error)
	// GetWithLines возвращает заказ вместе с позициями в порядке их создания.
	GetWithLines(id ID) (Order, error)
	// Delete удаляет заказ и все его позиции.
	Delete(id ID) error
	// UpdateTotals обновляет суммы заказа и возвращает новое состояние.
	UpdateTotals(id ID, tax, subtotal, total float64) (Order, error)
	// CreateLine сохраняет позицию заказа, сервер назначает идентификатор.
	CreateLine(line OrderLine) (OrderLine, error)
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}
