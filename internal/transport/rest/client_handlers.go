package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dualtech/ordenes-api/internal/domain"
)

// ListClients возвращает всех клиентов.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clients.List()
	if err != nil {
		h.serverError(w, err)
		return
	}
	writeData(w, http.StatusOK, "clients listed", toClientDTOs(clients))
}

// GetClient возвращает клиента по идентификатору.
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	client, err := h.clients.Get(id)
	if err != nil {
		if domain.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "client not found", []string{err.Error()})
			return
		}
		h.serverError(w, err)
		return
	}
	writeData(w, http.StatusOK, "client found", toClientDTO(client))
}

// CreateClient создаёт нового клиента.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var dto clientDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", []string{err.Error()})
		return
	}
	if dto.ID != 0 {
		writeError(w, http.StatusBadRequest, "invalid client", []string{"client id must be 0"})
		return
	}

	client := domain.Client{Name: dto.Name, Cedula: dto.Cedula}
	if errs := client.ValidateInvariants(); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, "invalid client", errorStrings(errs))
		return
	}

	created, err := h.clients.Create(client)
	if err != nil {
		if errors.Is(err, domain.ErrClientCedulaTaken) {
			writeError(w, http.StatusBadRequest, "invalid client", []string{err.Error()})
			return
		}
		h.serverError(w, err)
		return
	}
	writeData(w, http.StatusCreated, "client created", toClientDTO(created))
}

// UpdateClient обновляет существующего клиента.
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var dto clientDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", []string{err.Error()})
		return
	}

	client := domain.Client{ID: id, Name: dto.Name, Cedula: dto.Cedula}
	if errs := client.ValidateInvariants(); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, "invalid client", errorStrings(errs))
		return
	}

	updated, err := h.clients.Update(client)
	if err != nil {
		switch {
		case domain.IsNotFound(err):
			writeError(w, http.StatusNotFound, "client not found", []string{err.Error()})
		case errors.Is(err, domain.ErrClientCedulaTaken):
			writeError(w, http.StatusBadRequest, "invalid client", []string{err.Error()})
		default:
			h.serverError(w, err)
		}
		return
	}
	writeData(w, http.StatusOK, "client updated", toClientDTO(updated))
}

// DeleteClient удаляет клиента.
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.clients.Delete(id); err != nil {
		if domain.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "client not found", []string{err.Error()})
			return
		}
		h.serverError(w, err)
		return
	}
	writeData(w, http.StatusOK, "client deleted", nil)
}
