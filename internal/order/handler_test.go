package order

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PreethamDesoden/chaos-resilient-platform/internal/inventory"
	"github.com/PreethamDesoden/chaos-resilient-platform/internal/notification"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// newDependencyServers spins up the real inventory and notification
// services on httptest listeners, so these tests exercise the actual wire
// contracts between the three components.
func newDependencyServers(t *testing.T) (*httptest.Server, *httptest.Server, *notification.Log) {
	t.Helper()

	invRouter := chi.NewRouter()
	inventory.NewHandler(inventory.NewStore(), zap.NewNop()).Routes(invRouter)
	invServer := httptest.NewServer(invRouter)
	t.Cleanup(invServer.Close)

	notifLog := notification.NewLog(0)
	notifRouter := chi.NewRouter()
	notification.NewHandler(notifLog, zap.NewNop()).Routes(notifRouter)
	notifServer := httptest.NewServer(notifRouter)
	t.Cleanup(notifServer.Close)

	return invServer, notifServer, notifLog
}

func newOrderRouter(inventoryURL, notificationURL string, metrics *Metrics) *chi.Mux {
	inventoryClient := NewInventoryClient(inventoryURL)
	notificationClient := NewNotificationClient(notificationURL)
	workflow := NewWorkflow(inventoryClient, notificationClient, metrics, zap.NewNop(), otel.Tracer("test"))
	handler := NewHandler(workflow, inventoryClient, notificationClient, metrics, metrics.Handler(), zap.NewNop())

	router := chi.NewRouter()
	handler.Routes(router)
	return router
}

func postOrder(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateOrderConfirmed(t *testing.T) {
	invServer, notifServer, notifLog := newDependencyServers(t)
	router := newOrderRouter(invServer.URL, notifServer.URL, NewMetrics())

	rec := postOrder(router, `{"product_id":"PROD-001","quantity":10,"email":"user@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var confirmation Confirmation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &confirmation))
	assert.Equal(t, "confirmed", confirmation.Status)
	assert.Equal(t, "PROD-001", confirmation.ProductID)
	assert.Equal(t, 10, confirmation.Quantity)
	assert.Regexp(t, `^ORD-\d{14}$`, confirmation.OrderID)

	records, total := notifLog.Recent(10)
	require.Equal(t, 1, total)
	assert.Equal(t, confirmation.OrderID, records[0].OrderID)
	assert.Equal(t, "user@example.com", records[0].Email)
}

func TestCreateOrderUnknownProductRejected(t *testing.T) {
	invServer, notifServer, notifLog := newDependencyServers(t)
	router := newOrderRouter(invServer.URL, notifServer.URL, NewMetrics())

	rec := postOrder(router, `{"product_id":"PROD-999","quantity":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product unavailable")

	_, total := notifLog.Recent(10)
	assert.Equal(t, 0, total, "rejected orders must not notify")
}

func TestCreateOrderInsufficientStockRejected(t *testing.T) {
	invServer, notifServer, _ := newDependencyServers(t)
	router := newOrderRouter(invServer.URL, notifServer.URL, NewMetrics())

	rec := postOrder(router, `{"product_id":"PROD-004","quantity":31}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Insufficient stock")
}

func TestCreateOrderInventoryDownReturns503(t *testing.T) {
	invServer, notifServer, notifLog := newDependencyServers(t)
	invServer.Close()
	router := newOrderRouter(invServer.URL, notifServer.URL, NewMetrics())

	rec := postOrder(router, `{"product_id":"PROD-001","quantity":1}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Inventory service unavailable")

	_, total := notifLog.Recent(10)
	assert.Equal(t, 0, total, "notification must never run when inventory is down")
}

func TestCreateOrderNotificationDownStillConfirms(t *testing.T) {
	invServer, notifServer, _ := newDependencyServers(t)
	notifServer.Close()
	router := newOrderRouter(invServer.URL, notifServer.URL, NewMetrics())

	rec := postOrder(router, `{"product_id":"PROD-002","quantity":1,"email":"user@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var confirmation Confirmation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &confirmation))
	assert.Equal(t, "confirmed", confirmation.Status)
	assert.NotEmpty(t, confirmation.OrderID)
}

func TestCreateOrderMalformedBodyReturns500(t *testing.T) {
	invServer, notifServer, _ := newDependencyServers(t)
	router := newOrderRouter(invServer.URL, notifServer.URL, NewMetrics())

	rec := postOrder(router, `{"product_id":`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestGetOrderAlwaysReturnsProcessingPlaceholder(t *testing.T) {
	invServer, notifServer, _ := newDependencyServers(t)
	router := newOrderRouter(invServer.URL, notifServer.URL, NewMetrics())

	req := httptest.NewRequest(http.MethodGet, "/orders/ORD-never-created", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body orderStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ORD-never-created", body.OrderID)
	assert.Equal(t, "processing", body.Status)
	assert.NotEmpty(t, body.CreatedAt)
}

func TestReadyWhenDependenciesHealthy(t *testing.T) {
	invServer, notifServer, _ := newDependencyServers(t)
	router := newOrderRouter(invServer.URL, notifServer.URL, NewMetrics())

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
}

func TestReadyWhenInventoryDown(t *testing.T) {
	invServer, notifServer, _ := newDependencyServers(t)
	invServer.Close()
	router := newOrderRouter(invServer.URL, notifServer.URL, NewMetrics())

	start := time.Now()
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Less(t, time.Since(start), 3*time.Second, "readiness must respect the probe timeout")

	var body readyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body.Status)
	assert.Contains(t, body.Reason, "inventory-service")
}

func TestMetricsExposition(t *testing.T) {
	invServer, notifServer, _ := newDependencyServers(t)
	metrics := NewMetrics()
	router := newOrderRouter(invServer.URL, notifServer.URL, metrics)

	postOrder(router, `{"product_id":"PROD-001","quantity":1,"email":"user@example.com"}`)
	postOrder(router, `{"product_id":"PROD-999","quantity":1}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `order_requests_total{product_id="PROD-001",status="confirmed"} 1`)
	assert.Contains(t, body, `order_requests_total{product_id="PROD-999",status="rejected"} 1`)
	assert.Contains(t, body, `inventory_requests_total{status="success"} 1`)
	assert.Contains(t, body, `inventory_requests_total{status="rejected"} 1`)
	assert.Contains(t, body, `notification_requests_total{status="success"} 1`)
	assert.Contains(t, body, "order_request_duration_seconds")
}
