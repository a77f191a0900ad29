package domain

import (
	"errors"
	"fmt"
)

var (
	// Ошибка ненулевого ordenId в запросе: идентификаторы назначает сервер.
	ErrOrderIDMustBeZero = errors.New("order id must be 0")
	// Ошибка пустого списка позиций при создании заказа.
	ErrLinesRequired = errors.New("at least one line item required")
	// Ошибка отсутствующего идентификатора клиента в заказе.
	ErrClientRequired = errors.New("client id is required")
	// Ошибка некорректного количества товара в позиции (<= 0).
	ErrLineQuantityInvalid = errors.New("line quantity must be greater than zero")
	// Ошибка отсутствующего товара в позиции.
	ErrLineProductRequired = errors.New("line product id is required")
	// Ошибка несоответствия сумм заказа и сумм его позиций.
	ErrTotalsMismatch = errors.New("order totals do not match line totals")

	// Ошибка отсутствующего имени клиента.
	ErrClientNameRequired = errors.New("client name is required")
	// Ошибка отсутствующей cedula клиента.
	ErrClientCedulaRequired = errors.New("client cedula is required")
	// ErrClientCedulaTaken возвращается при попытке сохранить дубликат cedula.
	ErrClientCedulaTaken = errors.New("client cedula already registered")

	// Ошибка отсутствующего названия товара.
	ErrProductNameRequired = errors.New("product name is required")
	// Ошибка отрицательной цены товара.
	ErrProductPriceNegative = errors.New("product price must be non-negative")
	// Ошибка отрицательного остатка товара.
	ErrProductStockNegative = errors.New("product stock must be non-negative")

	// ErrClientNotFound возвращается, если клиент не найден в репозитории.
	ErrClientNotFound = errors.New("client not found")
	// ErrProductNotFound возвращается, если товар не найден в репозитории.
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")

	// ErrOutboxRecordNotFound возвращается при операции над отсутствующей outbox-записью.
	ErrOutboxRecordNotFound = errors.New("outbox record not found")
)

// NotFoundError уточняет, какая именно сущность отсутствует.
// Разворачивается в соответствующий sentinel через errors.Is.
type NotFoundError struct {
	Entity string
	ID     ID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	switch e.Entity {
	case "client":
		return ErrClientNotFound
	case "product":
		return ErrProductNotFound
	case "order":
		return ErrOrderNotFound
	default:
		return nil
	}
}

// NewClientNotFound создаёт ошибку отсутствующего клиента.
func NewClientNotFound(id ID) error {
	return &NotFoundError{Entity: "client", ID: id}
}

// NewProductNotFound создаёт ошибку отсутствующего товара.
func NewProductNotFound(id ID) error {
	return &NotFoundError{Entity: "product", ID: id}
}

// NewOrderNotFound создаёт ошибку отсутствующего заказа.
func NewOrderNotFound(id ID) error {
	return &NotFoundError{Entity: "order", ID: id}
}

// InsufficientStockError — бизнес-ошибка: запрошено больше, чем есть на складе.
type InsufficientStockError struct {
	ProductID ID
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

// IsNotFound проверяет, относится ли ошибка к отсутствующей сущности.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrClientNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrOrderNotFound)
}
