package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/dualtech/ordenes-api/internal/domain"
)

// clientRepositoryInMemory — простая in-memory реализация ClientRepository.
type clientRepositoryInMemory struct {
	mu     sync.RWMutex
	items  map[domain.ID]domain.Client
	nextID int64
}

// NewClientRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewClientRepository() domain.ClientRepository {
	return &clientRepositoryInMemory{
		items: make(map[domain.ID]domain.Client),
	}
}

// Create сохраняет клиента, назначая следующий идентификатор.
// Дубликат cedula отклоняется до записи.
func (r *clientRepositoryInMemory) Create(client domain.Client) (domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Cedula == client.Cedula {
			return domain.Client{}, domain.ErrClientCedulaTaken
		}
	}

	r.nextID++
	now := time.Now().UTC()
	client.ID = domain.ID(r.nextID)
	client.CreatedAt = now
	client.UpdatedAt = now
	r.items[client.ID] = client
	return client, nil
}

// Get возвращает клиента или ошибку отсутствия.
func (r *clientRepositoryInMemory) Get(id domain.ID) (domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.items[id]
	if !ok {
		return domain.Client{}, domain.NewClientNotFound(id)
	}
	return client, nil
}

// List возвращает клиентов, отсортированных по идентификатору.
func (r *clientRepositoryInMemory) List() ([]domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]domain.Client, 0, len(r.items))
	for _, client := range r.items {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].ID < clients[j].ID })
	return clients, nil
}

// Update заменяет данные существующего клиента.
func (r *clientRepositoryInMemory) Update(client domain.Client) (domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[client.ID]
	if !ok {
		return domain.Client{}, domain.NewClientNotFound(client.ID)
	}
	for id, existing := range r.items {
		if id != client.ID && existing.Cedula == client.Cedula {
			return domain.Client{}, domain.ErrClientCedulaTaken
		}
	}

	client.CreatedAt = current.CreatedAt
	client.UpdatedAt = time.Now().UTC()
	r.items[client.ID] = client
	return client, nil
}

// Delete удаляет клиента.
func (r *clientRepositoryInMemory) Delete(id domain.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.NewClientNotFound(id)
	}
	delete(r.items, id)
	return nil
}

var _ domain.ClientRepository = (*clientRepositoryInMemory)(nil)
