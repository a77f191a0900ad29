package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/dualtech/ordenes-api/internal/domain"
)

// productRepositoryInMemory — простая in-memory реализация ProductRepository.
type productRepositoryInMemory struct {
	mu     sync.RWMutex
	items  map[domain.ID]domain.Product
	nextID int64
}

// NewProductRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{
		items: make(map[domain.ID]domain.Product),
	}
}

// Create сохраняет товар, назначая следующий идентификатор.
func (r *productRepositoryInMemory) Create(product domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := time.Now().UTC()
	product.ID = domain.ID(r.nextID)
	product.CreatedAt = now
	product.UpdatedAt = now
	r.items[product.ID] = product
	return product, nil
}

// Get возвращает товар или ошибку отсутствия.
func (r *productRepositoryInMemory) Get(id domain.ID) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.NewProductNotFound(id)
	}
	return product, nil
}

// List возвращает товары, отсортированные по идентификатору.
func (r *productRepositoryInMemory) List() ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]domain.Product, 0, len(r.items))
	for _, product := range r.items {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

// Update заменяет данные существующего товара.
func (r *productRepositoryInMemory) Update(product domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[product.ID]
	if !ok {
		return domain.Product{}, domain.NewProductNotFound(product.ID)
	}

	product.CreatedAt = current.CreatedAt
	product.UpdatedAt = time.Now().UTC()
	r.items[product.ID] = product
	return product, nil
}

// Delete удаляет товар.
func (r *productRepositoryInMemory) Delete(id domain.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.NewProductNotFound(id)
	}
	delete(r.items, id)
	return nil
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
