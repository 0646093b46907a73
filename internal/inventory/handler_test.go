package inventory

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(store *Store) *chi.Mux {
	r := chi.NewRouter()
	NewHandler(store, zap.NewNop()).Routes(r)
	return r
}

func postCheck(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/check", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCheckReservesAndThenRejects(t *testing.T) {
	router := newTestRouter(NewStore())

	rec := postCheck(t, router, `{"product_id":"PROD-001","quantity":10}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var reserved struct {
		Available      bool   `json:"available"`
		ProductID      string `json:"product_id"`
		Reserved       int    `json:"reserved"`
		RemainingStock int    `json:"remaining_stock"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reserved))
	assert.True(t, reserved.Available)
	assert.Equal(t, "PROD-001", reserved.ProductID)
	assert.Equal(t, 10, reserved.Reserved)
	assert.Equal(t, 40, reserved.RemainingStock)

	rec = postCheck(t, router, `{"product_id":"PROD-001","quantity":41}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var rejected struct {
		Available      bool   `json:"available"`
		Reason         string `json:"reason"`
		Requested      int    `json:"requested"`
		AvailableStock int    `json:"available_stock"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rejected))
	assert.False(t, rejected.Available)
	assert.Equal(t, "Insufficient stock", rejected.Reason)
	assert.Equal(t, 41, rejected.Requested)
	assert.Equal(t, 40, rejected.AvailableStock)
}

func TestCheckUnknownProductReturns404(t *testing.T) {
	router := newTestRouter(NewStore())

	rec := postCheck(t, router, `{"product_id":"PROD-999","quantity":1}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Available bool   `json:"available"`
		Reason    string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Available)
	assert.Equal(t, "Product not found", body.Reason)
}

func TestCheckDefaultsQuantity(t *testing.T) {
	router := newTestRouter(NewStore())

	rec := postCheck(t, router, `{"product_id":"PROD-004"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var reserved struct {
		Reserved       int `json:"reserved"`
		RemainingStock int `json:"remaining_stock"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reserved))
	assert.Equal(t, 1, reserved.Reserved)
	assert.Equal(t, 29, reserved.RemainingStock)
}

func TestCheckMalformedBodyReturns500(t *testing.T) {
	router := newTestRouter(NewStore())

	rec := postCheck(t, router, `{"product_id":`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListInventory(t *testing.T) {
	router := newTestRouter(NewStore())

	req := httptest.NewRequest(http.MethodGet, "/inventory", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Inventory map[string]Product `json:"inventory"`
		Timestamp string             `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Inventory, 5)
	assert.Equal(t, 50, body.Inventory["PROD-001"].Stock)
	assert.NotEmpty(t, body.Timestamp)
}

func TestGetProduct(t *testing.T) {
	router := newTestRouter(NewStore())

	req := httptest.NewRequest(http.MethodGet, "/inventory/PROD-002", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		ProductID string  `json:"product_id"`
		Details   Product `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "PROD-002", body.ProductID)
	assert.Equal(t, "Mouse", body.Details.Name)

	req = httptest.NewRequest(http.MethodGet, "/inventory/PROD-999", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(NewStore())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "inventory-service", body.Service)
}
