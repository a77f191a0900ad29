package rest

import (
	"encoding/json"
	"net/http"

	"github.com/dualtech/ordenes-api/internal/domain"
)

// ListProducts возвращает все товары каталога.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List()
	if err != nil {
		h.serverError(w, err)
		return
	}
	writeData(w, http.StatusOK, "products listed", toProductDTOs(products))
}

// GetProduct возвращает товар по идентификатору.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	product, err := h.products.Get(id)
	if err != nil {
		if domain.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "product not found", []string{err.Error()})
			return
		}
		h.serverError(w, err)
		return
	}
	writeData(w, http.StatusOK, "product found", toProductDTO(product))
}

// CreateProduct создаёт новый товар.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var dto productDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", []string{err.Error()})
		return
	}
	if dto.ID != 0 {
		writeError(w, http.StatusBadRequest, "invalid product", []string{"product id must be 0"})
		return
	}

	product := domain.Product{
		Name:        dto.Name,
		Description: dto.Description,
		Price:       dto.Price,
		Stock:       dto.Stock,
	}
	if errs := product.ValidateInvariants(); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, "invalid product", errorStrings(errs))
		return
	}

	created, err := h.products.Create(product)
	if err != nil {
		h.serverError(w, err)
		return
	}
	writeData(w, http.StatusCreated, "product created", toProductDTO(created))
}

// UpdateProduct обновляет существующий товар.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var dto productDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", []string{err.Error()})
		return
	}

	product := domain.Product{
		ID:          id,
		Name:        dto.Name,
		Description: dto.Description,
		Price:       dto.Price,
		Stock:       dto.Stock,
	}
	if errs := product.ValidateInvariants(); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, "invalid product", errorStrings(errs))
		return
	}

	updated, err := h.products.Update(product)
	if err != nil {
		if domain.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "product not found", []string{err.Error()})
			return
		}
		h.serverError(w, err)
		return
	}
	writeData(w, http.StatusOK, "product updated", toProductDTO(updated))
}

// DeleteProduct удаляет товар.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.products.Delete(id); err != nil {
		if domain.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "product not found", []string{err.Error()})
			return
		}
		h.serverError(w, err)
		return
	}
	writeData(w, http.StatusOK, "product deleted", nil)
}
