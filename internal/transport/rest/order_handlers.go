package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dualtech/ordenes-api/internal/domain"
	"github.com/dualtech/ordenes-api/internal/service/orden"
)

// CreateOrder принимает запрос на создание заказа и запускает workflow.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", []string{err.Error()})
		return
	}

	lines := make([]orden.LineRequest, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, orden.LineRequest{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}

	order, err := h.workflow.Create(orden.CreateRequest{
		OrderID:  req.OrderID,
		ClientID: req.ClientID,
		Lines:    lines,
	})
	if err != nil {
		h.respondOrderError(w, err)
		return
	}
	writeData(w, http.StatusCreated, "order created", toOrderDTO(order))
}

// GetOrder возвращает заказ вместе с позициями.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := h.orders.GetWithLines(id)
	if err != nil {
		if domain.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "order not found", []string{err.Error()})
			return
		}
		h.serverError(w, err)
		return
	}
	writeData(w, http.StatusOK, "order found", toOrderDTO(order))
}

// respondOrderError переводит ошибки workflow в HTTP-ответы:
// ошибки входных данных и бизнес-правил — 400, всё остальное — 500.
func (h *Handler) respondOrderError(w http.ResponseWriter, err error) {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.Is(err, domain.ErrOrderIDMustBeZero),
		errors.Is(err, domain.ErrLinesRequired),
		errors.Is(err, domain.ErrLineQuantityInvalid):
		writeError(w, http.StatusBadRequest, "invalid order request", []string{err.Error()})
	case errors.Is(err, domain.ErrClientNotFound),
		errors.Is(err, domain.ErrProductNotFound):
		writeError(w, http.StatusBadRequest, "order validation failed", []string{err.Error()})
	case errors.As(err, &stockErr):
		writeError(w, http.StatusBadRequest, "order validation failed", []string{stockErr.Error()})
	default:
		h.serverError(w, err)
	}
}
