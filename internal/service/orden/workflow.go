package orden

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dualtech/ordenes-api/internal/domain"
	"github.com/dualtech/ordenes-api/internal/messaging/kafka"
	"github.com/dualtech/ordenes-api/internal/metrics"
)

// LineRequest — одна запрошенная позиция заказа.
type LineRequest struct {
	ProductID domain.ID
	Quantity  int64
}

// CreateRequest — входные данные workflow создания заказа.
type CreateRequest struct {
	// OrderID носит рекомендательный характер и обязан быть 0:
	// реальные идентификаторы назначает сервер.
	OrderID  domain.ID
	ClientID domain.ID
	Lines    []LineRequest
}

// Workflow реализует создание заказа: валидацию клиента и позиций,
// проверку остатков, расчёт сумм и материализацию позиций с
// компенсирующим удалением заказа при сбое валидации.
type Workflow struct {
	clients  domain.ClientRepository
	products domain.ProductRepository
	orders   domain.OrderRepository
	outbox   domain.OutboxRepository

	logger        *log.Entry
	metrics       *metrics.OrderMetrics
	kafkaProducer *kafka.Producer // опциональный producer для event-driven интеграций
}

// NewWorkflow создаёт рабочий экземпляр workflow.
func NewWorkflow(
	clients domain.ClientRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	outbox domain.OutboxRepository,
	logger *log.Entry,
) *Workflow {
	if logger == nil {
		logger = log.New().WithField("component", "order-workflow")
	}
	return &Workflow{
		clients:  clients,
		products: products,
		orders:   orders,
		outbox:   outbox,
		logger:   logger,
		metrics:  metrics.NewOrderMetrics(),
	}
}

// NewWorkflowWithKafka создаёт workflow, публикующий события заказов в Kafka.
func NewWorkflowWithKafka(
	clients domain.ClientRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	outbox domain.OutboxRepository,
	kafkaProducer *kafka.Producer,
	logger *log.Entry,
) *Workflow {
	w := NewWorkflow(clients, products, orders, outbox, logger)
	w.kafkaProducer = kafkaProducer
	return w
}

// NewWorkflowWithoutMetrics создаёт workflow без метрик (для тестов).
func NewWorkflowWithoutMetrics(
	clients domain.ClientRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	outbox domain.OutboxRepository,
	logger *log.Entry,
) *Workflow {
	if logger == nil {
		logger = log.New().WithField("component", "order-workflow")
	}
	return &Workflow{
		clients:  clients,
		products: products,
		orders:   orders,
		outbox:   outbox,
		logger:   logger,
		metrics:  nil,
	}
}

// Create выполняет workflow создания заказа.
//
// Последовательность: проверка ordenId, проверка клиента, проверка списка
// позиций, создание заказа-скелета с нулевыми суммами, валидация всех позиций
// (существование товара, достаточность остатка), материализация позиций с
// расчётом сумм и финальное обновление сумм заказа. Если валидация позиций
// не прошла, заказ-скелет удаляется: операция не оставляет следов в хранилище.
//
// Остаток товара проверяется, но не списывается; конкурентные заказы на один
// товар могут оба пройти проверку. Резервирование остатков выполняет внешняя
// система.
func (w *Workflow) Create(req CreateRequest) (domain.Order, error) {
	start := time.Now()
	if w.metrics != nil {
		w.metrics.CreateStarted()
	}
	defer func() {
		if w.metrics != nil {
			w.metrics.CreateFinished()
			w.metrics.RecordCreateDuration(time.Since(start))
		}
	}()

	if req.OrderID != 0 {
		return domain.Order{}, w.reject(req.ClientID, domain.ErrOrderIDMustBeZero)
	}

	if _, err := w.clients.Get(req.ClientID); err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return domain.Order{}, w.reject(req.ClientID, err)
		}
		return domain.Order{}, w.fail(fmt.Errorf("load client %s: %w", req.ClientID, err))
	}

	if len(req.Lines) == 0 {
		return domain.Order{}, w.reject(req.ClientID, domain.ErrLinesRequired)
	}
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return domain.Order{}, w.reject(req.ClientID, domain.ErrLineQuantityInvalid)
		}
	}

	// Заказ-скелет создаётся до валидации позиций: строкам нужен
	// назначенный сервером идентификатор заказа. Любой сбой ниже обязан
	// компенсироваться удалением скелета.
	skeleton, err := w.orders.Create(domain.Order{ClientID: req.ClientID})
	if err != nil {
		return domain.Order{}, w.fail(fmt.Errorf("create order skeleton: %w", err))
	}
	orderLogger := w.logger.WithField("order_id", skeleton.ID)

	// Первый проход: валидируем все позиции до записи первой строки.
	for _, line := range req.Lines {
		product, err := w.products.Get(line.ProductID)
		if err != nil {
			w.compensate(skeleton.ID, orderLogger)
			if errors.Is(err, domain.ErrProductNotFound) {
				return domain.Order{}, w.reject(req.ClientID, err)
			}
			return domain.Order{}, w.fail(fmt.Errorf("load product %s: %w", line.ProductID, err))
		}
		if line.Quantity > product.Stock {
			w.compensate(skeleton.ID, orderLogger)
			return domain.Order{}, w.reject(req.ClientID, &domain.InsufficientStockError{
				ProductID: product.ID,
				Available: product.Stock,
				Requested: line.Quantity,
			})
		}
	}

	// Второй проход: материализуем позиции. Товар перечитывается как
	// страховка от изменения каталога между проходами.
	var orderTax, orderSubtotal, orderTotal float64
	for _, line := range req.Lines {
		product, err := w.products.Get(line.ProductID)
		if err != nil {
			w.compensate(skeleton.ID, orderLogger)
			if errors.Is(err, domain.ErrProductNotFound) {
				return domain.Order{}, w.reject(req.ClientID, err)
			}
			return domain.Order{}, w.fail(fmt.Errorf("reload product %s: %w", line.ProductID, err))
		}

		lineSubtotal := product.Price * float64(line.Quantity)
		lineTax := lineSubtotal * domain.TaxRate
		lineTotal := lineSubtotal + lineTax

		if _, err := w.orders.CreateLine(domain.OrderLine{
			OrderID:   skeleton.ID,
			ProductID: product.ID,
			Quantity:  line.Quantity,
			Tax:       lineTax,
			Subtotal:  lineSubtotal,
			Total:     lineTotal,
		}); err != nil {
			w.compensate(skeleton.ID, orderLogger)
			return domain.Order{}, w.fail(fmt.Errorf("create order line: %w", err))
		}

		orderTax += lineTax
		orderSubtotal += lineSubtotal
		orderTotal += lineTotal
	}

	if _, err := w.orders.UpdateTotals(skeleton.ID, orderTax, orderSubtotal, orderTotal); err != nil {
		w.compensate(skeleton.ID, orderLogger)
		return domain.Order{}, w.fail(fmt.Errorf("update order totals: %w", err))
	}

	result, err := w.orders.GetWithLines(skeleton.ID)
	if err != nil {
		// Заказ уже полон; удалять его из-за неудачного чтения нельзя.
		return domain.Order{}, w.fail(fmt.Errorf("load created order: %w", err))
	}

	orderLogger.WithFields(log.Fields{
		"client_id": result.ClientID,
		"lines":     len(result.Lines),
		"total":     result.Total,
	}).Info("order created")

	if w.metrics != nil {
		w.metrics.RecordCreated()
	}
	w.emitOrderCreated(result)

	return result, nil
}

// compensate удаляет заказ-скелет после сбоя валидации или материализации.
// Заказ без корректных сумм не должен оставаться в хранилище.
func (w *Workflow) compensate(orderID domain.ID, logger *log.Entry) {
	if err := w.orders.Delete(orderID); err != nil {
		logger.WithError(err).Error("compensating delete failed, orphaned order may remain")
		return
	}
	logger.Debug("skeleton order removed after failed validation")
}

// reject фиксирует бизнес-отказ в метриках, публикует событие order.rejected
// и возвращает исходную ошибку.
func (w *Workflow) reject(clientID domain.ID, err error) error {
	if w.metrics != nil {
		w.metrics.RecordRejected(rejectReason(err))
	}

	if w.kafkaProducer != nil {
		event := kafka.NewOrderEvent(kafka.EventTypeOrderRejected, 0, clientID, map[string]interface{}{
			"reason": rejectReason(err),
			"error":  err.Error(),
		})
		if pubErr := w.kafkaProducer.PublishOrderEvent(event); pubErr != nil {
			w.logger.WithError(pubErr).Warn("failed to publish order rejection to kafka")
		}
	}

	return err
}

// fail фиксирует сбой инфраструктуры в метриках и возвращает исходную ошибку.
func (w *Workflow) fail(err error) error {
	w.logger.WithError(err).Error("order creation failed")
	if w.metrics != nil {
		w.metrics.RecordFailed()
	}
	return err
}

func rejectReason(err error) string {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.Is(err, domain.ErrClientNotFound):
		return metrics.RejectReasonClientNotFound
	case errors.Is(err, domain.ErrProductNotFound):
		return metrics.RejectReasonProductNotFound
	case errors.As(err, &stockErr):
		return metrics.RejectReasonInsufficientStock
	default:
		return metrics.RejectReasonInvalidInput
	}
}

// emitOrderCreated ставит событие order.created в outbox и, если настроен
// producer, дублирует его в Kafka. Ошибки публикации не влияют на результат
// workflow.
func (w *Workflow) emitOrderCreated(order domain.Order) {
	payload, err := json.Marshal(map[string]interface{}{
		"order_id":  order.ID,
		"client_id": order.ClientID,
		"tax":       order.Tax,
		"subtotal":  order.Subtotal,
		"total":     order.Total,
		"lines":     len(order.Lines),
		"ts":        time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		w.logger.WithError(err).WithField("order_id", order.ID).Error("marshal order event failed")
		return
	}

	if w.outbox != nil {
		msg := domain.OutboxMessage{
			AggregateType: "order",
			AggregateID:   order.ID.String(),
			EventType:     string(kafka.EventTypeOrderCreated),
			Payload:       payload,
		}
		if _, err := w.outbox.Enqueue(msg); err != nil {
			w.logger.WithError(err).WithField("order_id", order.ID).Error("enqueue order event failed")
		} else if w.metrics != nil {
			w.metrics.RecordOutboxEvent()
		}
	}

	if w.kafkaProducer != nil {
		event := kafka.NewOrderEvent(kafka.EventTypeOrderCreated, order.ID, order.ClientID, map[string]interface{}{
			"total": order.Total,
			"lines": len(order.Lines),
		})
		if err := w.kafkaProducer.PublishOrderEvent(event); err != nil {
			w.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to publish order event to kafka")
		}
	}
}
