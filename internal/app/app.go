package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/dualtech/ordenes-api/internal/domain"
	healthcheck "github.com/dualtech/ordenes-api/internal/health"
	"github.com/dualtech/ordenes-api/internal/messaging/kafka"
	"github.com/dualtech/ordenes-api/internal/service/orden"
	"github.com/dualtech/ordenes-api/internal/service/outbox"
	"github.com/dualtech/ordenes-api/internal/storage/memory"
	"github.com/dualtech/ordenes-api/internal/storage/postgres"
	"github.com/dualtech/ordenes-api/internal/transport/rest"
	"github.com/dualtech/ordenes-api/internal/version"
)

// repositories группирует хранилища, выбранные при старте.
type repositories struct {
	clients  domain.ClientRepository
	products domain.ProductRepository
	orders   domain.OrderRepository
	outbox   domain.OutboxRepository
}

// Run собирает зависимости и обслуживает REST API до отмены ctx.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	healthHandler := healthcheck.NewHandler(version.String())

	repos, store, err := initStorage(ctx, cfg, logger, healthHandler)
	if err != nil {
		return err
	}
	defer func() {
		if store != nil {
			_ = store.Close()
		}
	}()

	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)
	defer closeKafka(kafkaProducer, logger)

	var workflow *orden.Workflow
	workflowLogger := logger.WithField("component", "order-workflow")
	if kafkaProducer != nil {
		workflow = orden.NewWorkflowWithKafka(
			repos.clients, repos.products, repos.orders, repos.outbox,
			kafkaProducer, workflowLogger,
		)
	} else {
		workflow = orden.NewWorkflow(
			repos.clients, repos.products, repos.orders, repos.outbox,
			workflowLogger,
		)
	}

	// Outbox worker публикует накопленные события, пока настроен Kafka.
	if kafkaProducer != nil {
		worker := outbox.NewWorker(
			repos.outbox,
			kafka.NewOutboxPublisher(kafkaProducer, kafka.TopicOrderEvents),
			outbox.WithDLQPublisher(kafka.NewOutboxPublisher(kafkaProducer, kafka.TopicDeadLetterQueue)),
			outbox.WithLogger(logger.WithField("component", "outbox-worker")),
		)
		go worker.Run(ctx)
	}

	handler := rest.NewHandler(
		repos.clients, repos.products, repos.orders, workflow,
		logger.WithField("component", "rest"),
	)
	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: rest.NewRouter(handler)}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("REST API слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// initStorage выбирает PostgreSQL при заданном DATABASE_URL, иначе in-memory.
func initStorage(
	ctx context.Context,
	cfg Config,
	logger *log.Entry,
	healthHandler *healthcheck.Handler,
) (repositories, *postgres.Store, error) {
	if cfg.DatabaseURL == "" {
		logger.Info("DATABASE_URL не задан, используем in-memory хранилище")
		return repositories{
			clients:  memory.NewClientRepository(),
			products: memory.NewProductRepository(),
			orders:   memory.NewOrderRepository(),
			outbox:   memory.NewOutboxRepository(),
		}, nil, nil
	}

	store, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return repositories{}, nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return repositories{}, nil, err
	}
	logger.Info("postgres хранилище инициализировано")

	healthHandler.RegisterChecker("storage", healthcheck.NewSimpleChecker("storage", func() error {
		checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return store.Ping(checkCtx)
	}))

	return repositories{
		clients:  postgres.NewClientRepository(store),
		products: postgres.NewProductRepository(store),
		orders:   postgres.NewOrderRepository(store),
		outbox:   postgres.NewOutboxRepository(store),
	}, store, nil
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/readyz, %s/livez", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
