package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/dualtech/ordenes-api/internal/domain"
	"github.com/dualtech/ordenes-api/internal/service/orden"
)

// Handler объединяет HTTP-обработчики API поверх репозиториев и workflow заказов.
type Handler struct {
	clients  domain.ClientRepository
	products domain.ProductRepository
	orders   domain.OrderRepository
	workflow *orden.Workflow
	logger   *log.Entry
}

// NewHandler конструирует Handler с зависимостями.
func NewHandler(
	clients domain.ClientRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	workflow *orden.Workflow,
	logger *log.Entry,
) *Handler {
	if logger == nil {
		logger = log.WithField("component", "rest")
	}
	return &Handler{
		clients:  clients,
		products: products,
		orders:   orders,
		workflow: workflow,
		logger:   logger,
	}
}

// NewRouter строит маршрутизатор API с логирующим middleware.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger(h.logger))

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("API de DualTech"))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/clientes", h.ListClients).Methods(http.MethodGet)
	api.HandleFunc("/clientes/create", h.CreateClient).Methods(http.MethodPost)
	api.HandleFunc("/clientes/update/{id}", h.UpdateClient).Methods(http.MethodPut)
	api.HandleFunc("/clientes/delete/{id}", h.DeleteClient).Methods(http.MethodDelete)
	api.HandleFunc("/clientes/{id}", h.GetClient).Methods(http.MethodGet)

	api.HandleFunc("/productos", h.ListProducts).Methods(http.MethodGet)
	api.HandleFunc("/productos/create", h.CreateProduct).Methods(http.MethodPost)
	api.HandleFunc("/productos/update/{id}", h.UpdateProduct).Methods(http.MethodPut)
	api.HandleFunc("/productos/delete/{id}", h.DeleteProduct).Methods(http.MethodDelete)
	api.HandleFunc("/productos/{id}", h.GetProduct).Methods(http.MethodGet)

	api.HandleFunc("/ordenes/create", h.CreateOrder).Methods(http.MethodPost)
	api.HandleFunc("/ordenes/{id}", h.GetOrder).Methods(http.MethodGet)

	return r
}

// pathID извлекает {id} из пути; некорректное значение отвечает 400.
func pathID(w http.ResponseWriter, r *http.Request) (domain.ID, bool) {
	raw := mux.Vars(r)["id"]
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id", []string{"id must be a positive integer"})
		return 0, false
	}
	return domain.ID(value), true
}

func (h *Handler) serverError(w http.ResponseWriter, err error) {
	h.logger.WithError(err).Error("request failed")
	writeError(w, http.StatusInternalServerError, "unexpected error", []string{err.Error()})
}

// statusRecorder запоминает код ответа для логирования.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// requestLogger логирует каждый запрос с методом, путём, статусом и длительностью.
func requestLogger(logger *log.Entry) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.WithFields(log.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
			}).Info("request handled")
		})
	}
}
