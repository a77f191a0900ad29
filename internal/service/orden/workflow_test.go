package orden_test

import (
	"errors"
	"io"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dualtech/ordenes-api/internal/domain"
	"github.com/dualtech/ordenes-api/internal/service/orden"
	"github.com/dualtech/ordenes-api/internal/storage/memory"
)

// fixture собирает in-memory хранилища и workflow для тестов.
type fixture struct {
	clients  domain.ClientRepository
	products domain.ProductRepository
	orders   domain.OrderRepository
	outbox   domain.OutboxRepository
	workflow *orden.Workflow
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := log.New()
	logger.SetOutput(io.Discard)

	f := &fixture{
		clients:  memory.NewClientRepository(),
		products: memory.NewProductRepository(),
		orders:   memory.NewOrderRepository(),
		outbox:   memory.NewOutboxRepository(),
	}
	f.workflow = orden.NewWorkflowWithoutMetrics(
		f.clients, f.products, f.orders, f.outbox,
		logger.WithField("component", "test"),
	)
	return f
}

func (f *fixture) seedClient(t *testing.T) domain.Client {
	t.Helper()
	client, err := f.clients.Create(domain.Client{Name: "Carlos Perez", Cedula: "1102233445"})
	require.NoError(t, err)
	return client
}

func (f *fixture) seedProduct(t *testing.T, price float64, stock int64) domain.Product {
	t.Helper()
	product, err := f.products.Create(domain.Product{Name: "Teclado", Price: price, Stock: stock})
	require.NoError(t, err)
	return product
}

func TestWorkflowCreate_Success(t *testing.T) {
	f := newFixture(t)
	client := f.seedClient(t)
	product := f.seedProduct(t, 100, 10)

	order, err := f.workflow.Create(orden.CreateRequest{
		ClientID: client.ID,
		Lines:    []orden.LineRequest{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.NotZero(t, order.ID)
	assert.Equal(t, client.ID, order.ClientID)
	assert.InDelta(t, 200.0, order.Subtotal, 1e-9)
	assert.InDelta(t, 30.0, order.Tax, 1e-9)
	assert.InDelta(t, 230.0, order.Total, 1e-9)

	require.Len(t, order.Lines, 1)
	line := order.Lines[0]
	assert.Equal(t, product.ID, line.ProductID)
	assert.Equal(t, int64(2), line.Quantity)
	assert.InDelta(t, 200.0, line.Subtotal, 1e-9)
	assert.InDelta(t, 30.0, line.Tax, 1e-9)
	assert.InDelta(t, 230.0, line.Total, 1e-9)

	// Инварианты полного заказа должны выполняться.
	assert.Empty(t, order.ValidateInvariants())

	// Событие order.created должно попасть в outbox.
	pending, err := f.outbox.PullPending(10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "order.created", pending[0].EventType)
	assert.Equal(t, order.ID.String(), pending[0].AggregateID)
}

func TestWorkflowCreate_MultiLineTotals(t *testing.T) {
	f := newFixture(t)
	client := f.seedClient(t)
	keyboard := f.seedProduct(t, 100, 10)
	mouse, err := f.products.Create(domain.Product{Name: "Mouse", Price: 25.5, Stock: 4})
	require.NoError(t, err)

	order, err := f.workflow.Create(orden.CreateRequest{
		ClientID: client.ID,
		Lines: []orden.LineRequest{
			{ProductID: keyboard.ID, Quantity: 3},
			{ProductID: mouse.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.Len(t, order.Lines, 2)

	var tax, subtotal, total float64
	for _, line := range order.Lines {
		tax += line.Tax
		subtotal += line.Subtotal
		total += line.Total
	}
	assert.InDelta(t, tax, order.Tax, 1e-9)
	assert.InDelta(t, subtotal, order.Subtotal, 1e-9)
	assert.InDelta(t, total, order.Total, 1e-9)
	assert.Empty(t, order.ValidateInvariants())
}

func TestWorkflowCreate_OrderIDMustBeZero(t *testing.T) {
	f := newFixture(t)
	client := f.seedClient(t)
	product := f.seedProduct(t, 100, 10)

	_, err := f.workflow.Create(orden.CreateRequest{
		OrderID:  42,
		ClientID: client.ID,
		Lines:    []orden.LineRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrOrderIDMustBeZero)

	// Отказ до любых изменений: хранилище заказов остаётся пустым.
	_, err = f.orders.Get(1)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestWorkflowCreate_ClientNotFound(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, 100, 10)

	_, err := f.workflow.Create(orden.CreateRequest{
		ClientID: 777,
		Lines:    []orden.LineRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestWorkflowCreate_ClientCheckedBeforeLines(t *testing.T) {
	f := newFixture(t)

	// Клиент не существует и список позиций пуст: клиент проверяется первым.
	_, err := f.workflow.Create(orden.CreateRequest{ClientID: 777})
	require.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestWorkflowCreate_EmptyLines(t *testing.T) {
	f := newFixture(t)
	client := f.seedClient(t)

	_, err := f.workflow.Create(orden.CreateRequest{ClientID: client.ID})
	require.ErrorIs(t, err, domain.ErrLinesRequired)
}

func TestWorkflowCreate_QuantityInvalid(t *testing.T) {
	f := newFixture(t)
	client := f.seedClient(t)
	product := f.seedProduct(t, 100, 10)

	for _, qty := range []int64{0, -3} {
		_, err := f.workflow.Create(orden.CreateRequest{
			ClientID: client.ID,
			Lines:    []orden.LineRequest{{ProductID: product.ID, Quantity: qty}},
		})
		require.ErrorIs(t, err, domain.ErrLineQuantityInvalid)
	}
}

func TestWorkflowCreate_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	client := f.seedClient(t)
	product := f.seedProduct(t, 100, 10)

	_, err := f.workflow.Create(orden.CreateRequest{
		ClientID: client.ID,
		Lines:    []orden.LineRequest{{ProductID: product.ID, Quantity: 11}},
	})
	require.Error(t, err)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, product.ID, stockErr.ProductID)
	assert.Equal(t, int64(10), stockErr.Available)
	assert.Equal(t, int64(11), stockErr.Requested)

	// Остаток не списывается даже при успешных заказах.
	stored, err := f.products.Get(product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), stored.Stock)
}

func TestWorkflowCreate_ProductMissingRollsBack(t *testing.T) {
	f := newFixture(t)
	client := f.seedClient(t)
	product := f.seedProduct(t, 100, 10)

	_, err := f.workflow.Create(orden.CreateRequest{
		ClientID: client.ID,
		Lines: []orden.LineRequest{
			{ProductID: product.ID, Quantity: 1},
			{ProductID: 999, Quantity: 1},
		},
	})
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	// Компенсация: заказ-скелет удалён, ни одна позиция не записана.
	_, err = f.orders.Get(1)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	// Outbox не получил событий об отклонённом заказе.
	pending, err := f.outbox.PullPending(10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

// failingOrderRepository ломает CreateLine после заданного числа успешных
// вызовов и позволяет проверить компенсацию при сбое материализации.
type failingOrderRepository struct {
	domain.OrderRepository

	createLineCalls int
	failAfter       int
	deleted         []domain.ID
}

func (r *failingOrderRepository) CreateLine(line domain.OrderLine) (domain.OrderLine, error) {
	r.createLineCalls++
	if r.createLineCalls > r.failAfter {
		return domain.OrderLine{}, errors.New("disk full")
	}
	return r.OrderRepository.CreateLine(line)
}

func (r *failingOrderRepository) Delete(id domain.ID) error {
	r.deleted = append(r.deleted, id)
	return r.OrderRepository.Delete(id)
}

func TestWorkflowCreate_LineWriteFailureCompensates(t *testing.T) {
	f := newFixture(t)
	client := f.seedClient(t)
	product := f.seedProduct(t, 100, 10)

	logger := log.New()
	logger.SetOutput(io.Discard)

	failing := &failingOrderRepository{OrderRepository: f.orders, failAfter: 1}
	workflow := orden.NewWorkflowWithoutMetrics(
		f.clients, f.products, failing, f.outbox,
		logger.WithField("component", "test"),
	)

	_, err := workflow.Create(orden.CreateRequest{
		ClientID: client.ID,
		Lines: []orden.LineRequest{
			{ProductID: product.ID, Quantity: 1},
			{ProductID: product.ID, Quantity: 2},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create order line")

	// Скелет должен быть удалён компенсирующим вызовом.
	require.Len(t, failing.deleted, 1)
	_, err = f.orders.Get(failing.deleted[0])
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
