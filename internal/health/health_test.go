package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_AllHealthy(t *testing.T) {
	h := NewHandler("1.2.3")
	h.RegisterChecker("storage", NewSimpleChecker("storage", func() error { return nil }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	require.Contains(t, resp.Checks, "storage")
	assert.Equal(t, StatusHealthy, resp.Checks["storage"].Status)
}

func TestHandler_UnhealthyComponent(t *testing.T) {
	h := NewHandler("1.2.3")
	h.RegisterChecker("storage", NewSimpleChecker("storage", func() error { return nil }))
	h.RegisterChecker("kafka", NewSimpleChecker("kafka", func() error {
		return errors.New("broker unreachable")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, StatusUnhealthy, resp.Status)
	assert.Equal(t, "broker unreachable", resp.Checks["kafka"].Message)
}

func TestHandler_NoCheckers(t *testing.T) {
	h := NewHandler("dev")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestReadinessHandler(t *testing.T) {
	h := NewHandler("dev")
	h.RegisterChecker("storage", NewSimpleChecker("storage", func() error { return nil }))

	rec := httptest.NewRecorder()
	h.ReadinessHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", rec.Body.String())

	h.RegisterChecker("kafka", NewSimpleChecker("kafka", func() error {
		return errors.New("broker unreachable")
	}))
	rec = httptest.NewRecorder()
	h.ReadinessHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLivenessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LivenessHandler(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
