package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики workflow создания заказов.
type OrderMetrics struct {
	// Счётчики исходов
	ordersCreated  prometheus.Counter
	ordersRejected *prometheus.CounterVec
	ordersFailed   prometheus.Counter

	// Гистограмма времени выполнения workflow
	createDuration prometheus.Histogram

	// Счётчик событий, отправленных в outbox
	outboxEvents prometheus.Counter

	// Gauge выполняющихся созданий
	activeCreates prometheus.Gauge
}

// Причины отклонения заказа для label reason.
const (
	RejectReasonInvalidInput      = "invalid_input"
	RejectReasonClientNotFound    = "client_not_found"
	RejectReasonProductNotFound   = "product_not_found"
	RejectReasonInsufficientStock = "insufficient_stock"
)

// NewOrderMetrics создаёт метрики с регистрацией в DefaultRegisterer.
func NewOrderMetrics() *OrderMetrics {
	return newOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ordenes_orders_created_total",
			Help: "Total number of orders created successfully",
		}),
		ordersRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "ordenes_orders_rejected_total",
			Help: "Total number of orders rejected by validation grouped by reason",
		}, []string{"reason"}),
		ordersFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ordenes_orders_failed_total",
			Help: "Total number of order creations failed on storage errors",
		}),
		createDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "ordenes_order_create_duration_seconds",
			Help:    "Duration of the order creation workflow in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		outboxEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ordenes_outbox_events_total",
			Help: "Total number of order events enqueued to the outbox",
		}),
		activeCreates: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "ordenes_active_order_creates",
			Help: "Number of order creations currently in flight",
		}),
	}
}

// RecordCreated фиксирует успешно созданный заказ.
func (m *OrderMetrics) RecordCreated() {
	m.ordersCreated.Inc()
}

// RecordRejected фиксирует отклонённый заказ с причиной.
func (m *OrderMetrics) RecordRejected(reason string) {
	m.ordersRejected.WithLabelValues(reason).Inc()
}

// RecordFailed фиксирует сбой хранилища во время создания заказа.
func (m *OrderMetrics) RecordFailed() {
	m.ordersFailed.Inc()
}

// RecordCreateDuration фиксирует длительность workflow.
func (m *OrderMetrics) RecordCreateDuration(d time.Duration) {
	m.createDuration.Observe(d.Seconds())
}

// RecordOutboxEvent фиксирует поставленное в outbox событие.
func (m *OrderMetrics) RecordOutboxEvent() {
	m.outboxEvents.Inc()
}

// CreateStarted увеличивает gauge активных созданий.
func (m *OrderMetrics) CreateStarted() {
	m.activeCreates.Inc()
}

// CreateFinished уменьшает gauge активных созданий.
func (m *OrderMetrics) CreateFinished() {
	m.activeCreates.Dec()
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}
