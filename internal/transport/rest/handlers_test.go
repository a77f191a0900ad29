package rest_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dualtech/ordenes-api/internal/service/orden"
	"github.com/dualtech/ordenes-api/internal/storage/memory"
	"github.com/dualtech/ordenes-api/internal/transport/rest"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	logger := log.New()
	logger.SetOutput(io.Discard)
	entry := logger.WithField("component", "test")

	clients := memory.NewClientRepository()
	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository()
	outbox := memory.NewOutboxRepository()

	workflow := orden.NewWorkflowWithoutMetrics(clients, products, orders, outbox, entry)
	handler := rest.NewHandler(clients, products, orders, workflow, entry)
	return rest.NewRouter(handler)
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) rest.Envelope {
	t.Helper()

	var env rest.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestRouter_Banner(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "API de DualTech", rec.Body.String())
}

func TestClientCRUD(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/clientes/create",
		`{"nombre":"Maria Lopez","cedula":"0912345678"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	// Идентификаторы сериализуются строками.
	assert.Contains(t, rec.Body.String(), `"clienteId":"1"`)

	rec = doJSON(t, router, http.MethodGet, "/api/clientes/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"nombre":"Maria Lopez"`)

	rec = doJSON(t, router, http.MethodGet, "/api/clientes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	env = decodeEnvelope(t, rec)
	data, ok := env.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 1)

	rec = doJSON(t, router, http.MethodPut, "/api/clientes/update/1",
		`{"nombre":"Maria Lopez Vera","cedula":"0912345678"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Maria Lopez Vera")

	rec = doJSON(t, router, http.MethodDelete, "/api/clientes/delete/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/clientes/1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	env = decodeEnvelope(t, rec)
	assert.False(t, env.Success)
}

func TestCreateClient_Validation(t *testing.T) {
	router := newTestRouter(t)

	// Клиентский идентификатор обязан быть 0.
	rec := doJSON(t, router, http.MethodPost, "/api/clientes/create",
		`{"clienteId":"7","nombre":"Pedro","cedula":"0102030405"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Пустые поля отклоняются с перечнем ошибок.
	rec = doJSON(t, router, http.MethodPost, "/api/clientes/create", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.NotEmpty(t, env.Errors)

	// Повторная cedula отклоняется.
	rec = doJSON(t, router, http.MethodPost, "/api/clientes/create",
		`{"nombre":"Pedro","cedula":"0102030405"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/api/clientes/create",
		`{"nombre":"Pablo","cedula":"0102030405"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductCRUD(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/productos/create",
		`{"nombre":"Teclado","descripcion":"Mecanico","precio":100,"stock":10}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"productoId":"1"`)

	rec = doJSON(t, router, http.MethodGet, "/api/productos/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/api/productos/update/1",
		`{"nombre":"Teclado","precio":120,"stock":8}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"precio":120`)

	rec = doJSON(t, router, http.MethodDelete, "/api/productos/delete/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/productos/1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPathID_Invalid(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/clientes/abc", "/api/clientes/0", "/api/clientes/-5"} {
		rec := doJSON(t, router, http.MethodGet, path, "")
		require.Equal(t, http.StatusBadRequest, rec.Code, "path %s", path)
	}
}

func TestCreateOrder_Success(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/clientes/create",
		`{"nombre":"Maria Lopez","cedula":"0912345678"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/api/productos/create",
		`{"nombre":"Teclado","precio":100,"stock":10}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/ordenes/create",
		`{"ordenId":"0","clienteId":"1","detalle":[{"productoId":"1","cantidad":2}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)

	body := rec.Body.String()
	assert.Contains(t, body, `"ordenId":"1"`)
	assert.Contains(t, body, `"subtotal":200`)
	assert.Contains(t, body, `"impuesto":30`)
	assert.Contains(t, body, `"total":230`)

	rec = doJSON(t, router, http.MethodGet, "/api/ordenes/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"detalle"`)
}

func TestCreateOrder_Rejections(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/clientes/create",
		`{"nombre":"Maria Lopez","cedula":"0912345678"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/api/productos/create",
		`{"nombre":"Teclado","precio":100,"stock":10}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	cases := []struct {
		name string
		body string
	}{
		{"нулевой ordenId обязателен", `{"ordenId":"5","clienteId":"1","detalle":[{"productoId":"1","cantidad":1}]}`},
		{"пустой detalle", `{"clienteId":"1","detalle":[]}`},
		{"клиент не существует", `{"clienteId":"99","detalle":[{"productoId":"1","cantidad":1}]}`},
		{"товар не существует", `{"clienteId":"1","detalle":[{"productoId":"77","cantidad":1}]}`},
		{"недостаточный остаток", `{"clienteId":"1","detalle":[{"productoId":"1","cantidad":11}]}`},
		{"неположительное количество", `{"clienteId":"1","detalle":[{"productoId":"1","cantidad":0}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/ordenes/create", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Errors)
		})
	}

	// Отклонённые заказы не оставляют следов.
	rec = doJSON(t, router, http.MethodGet, "/api/ordenes/1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateOrder_MalformedBody(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/ordenes/create", `{"detalle":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "invalid request body"))
}

func TestGetOrder_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/ordenes/42", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
