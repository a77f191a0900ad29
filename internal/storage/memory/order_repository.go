package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/dualtech/ordenes-api/internal/domain"
)

// orderRepositoryInMemory — in-memory реализация OrderRepository.
// Позиции хранятся отдельно от заказов и удаляются вместе с заказом.
type orderRepositoryInMemory struct {
	mu        sync.RWMutex
	orders    map[domain.ID]domain.Order
	lines     map[domain.ID][]domain.OrderLine
	nextOrder int64
	nextLine  int64
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		orders: make(map[domain.ID]domain.Order),
		lines:  make(map[domain.ID][]domain.OrderLine),
	}
}

// Create сохраняет новый заказ, назначая следующий идентификатор.
func (r *orderRepositoryInMemory) Create(order domain.Order) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextOrder++
	now := time.Now().UTC()
	order.ID = domain.ID(r.nextOrder)
	order.Lines = nil
	order.CreatedAt = now
	order.UpdatedAt = now
	r.orders[order.ID] = order
	return order, nil
}

// Get возвращает заказ без позиций или ошибку отсутствия.
func (r *orderRepositoryInMemory) Get(id domain.ID) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return domain.Order{}, domain.NewOrderNotFound(id)
	}
	return order, nil
}

// GetWithLines возвращает заказ вместе с позициями в порядке их создания.
func (r *orderRepositoryInMemory) GetWithLines(id domain.ID) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return domain.Order{}, domain.NewOrderNotFound(id)
	}

	// Возвращаем копию, чтобы избежать непредсказуемых мутаций извне.
	stored := r.lines[id]
	lines := make([]domain.OrderLine, len(stored))
	copy(lines, stored)
	sort.Slice(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })
	order.Lines = lines
	return order, nil
}

// Delete удаляет заказ и все его позиции.
func (r *orderRepositoryInMemory) Delete(id domain.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return domain.NewOrderNotFound(id)
	}
	delete(r.orders, id)
	delete(r.lines, id)
	return nil
}

// UpdateTotals обновляет суммы заказа.
func (r *orderRepositoryInMemory) UpdateTotals(id domain.ID, tax, subtotal, total float64) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return domain.Order{}, domain.NewOrderNotFound(id)
	}
	order.Tax = tax
	order.Subtotal = subtotal
	order.Total = total
	order.UpdatedAt = time.Now().UTC()
	r.orders[id] = order
	return order, nil
}

// CreateLine сохраняет позицию заказа, назначая следующий идентификатор.
func (r *orderRepositoryInMemory) CreateLine(line domain.OrderLine) (domain.OrderLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[line.OrderID]; !ok {
		return domain.OrderLine{}, domain.NewOrderNotFound(line.OrderID)
	}

	r.nextLine++
	line.ID = domain.ID(r.nextLine)
	line.CreatedAt = time.Now().UTC()
	r.lines[line.OrderID] = append(r.lines[line.OrderID], line)
	return line, nil
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
