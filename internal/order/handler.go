package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/PreethamDesoden/chaos-resilient-platform/internal/config"
	"github.com/PreethamDesoden/chaos-resilient-platform/internal/httpapi"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the order service's HTTP API.
type Handler struct {
	workflow  *Workflow
	inventory InventoryClient
	notifier  NotificationClient
	observer  Observer
	metrics   http.Handler
	logger    *zap.Logger
}

func NewHandler(workflow *Workflow, inventory InventoryClient, notifier NotificationClient, observer Observer, metrics http.Handler, logger *zap.Logger) *Handler {
	return &Handler{
		workflow:  workflow,
		inventory: inventory,
		notifier:  notifier,
		observer:  observer,
		metrics:   metrics,
		logger:    logger,
	}
}

// Routes registers every order endpoint on the router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/orders", h.CreateOrder)
	r.Get("/orders/{id}", h.GetOrder)
	r.Get("/health", httpapi.Health(config.OrderServiceName))
	r.Get("/ready", h.Ready)
	r.Method(http.MethodGet, "/metrics", h.metrics)
}

// CreateOrder runs the workflow once and maps its outcome onto the wire:
// 201 confirmed, 400 business rejection, 503 inventory unreachable, 500
// anything else. Every terminal branch increments the request counter
// exactly once.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		h.observer.RequestDuration("/orders", time.Since(start))
	}()

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.observer.OrderRequest(StatusError, req.ProductID)
		h.logger.Error("Order creation failed", zap.Error(err))
		httpapi.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	confirmation, err := h.workflow.PlaceOrder(r.Context(), req)
	if err != nil {
		var rejection *RejectionError
		switch {
		case errors.Is(err, ErrInventoryUnavailable):
			h.observer.OrderRequest(StatusUnavailable, req.ProductID)
			httpapi.WriteError(w, http.StatusServiceUnavailable, "Inventory service unavailable")
		case errors.As(err, &rejection):
			h.observer.OrderRequest(StatusRejected, req.ProductID)
			httpapi.WriteError(w, http.StatusBadRequest, rejectionMessage(rejection))
		default:
			h.observer.OrderRequest(StatusError, req.ProductID)
			h.logger.Error("Order creation failed", zap.Error(err))
			httpapi.WriteError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	h.observer.OrderRequest(StatusConfirmed, req.ProductID)
	httpapi.WriteJSON(w, http.StatusCreated, confirmation)
}

type orderStatusResponse struct {
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// GetOrder answers with a synthetic in-progress placeholder for any id.
// Orders are never stored, so there is no real read path; this is a known
// limitation kept from the demo's scope.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, orderStatusResponse{
		OrderID:   chi.URLParam(r, "id"),
		Status:    "processing",
		CreatedAt: time.Now().Format(time.RFC3339),
	})
}

type readyResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Ready reports ready only when both dependencies answer a live health
// probe. Each probe is bounded by the probe client's own timeout, so this
// endpoint can never hang past that; any failure, timeouts included, is
// surfaced as the not-ready reason.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.inventory.Health(ctx); err != nil {
		httpapi.WriteJSON(w, http.StatusServiceUnavailable, readyResponse{
			Status: "not ready",
			Reason: err.Error(),
		})
		return
	}
	if err := h.notifier.Health(ctx); err != nil {
		httpapi.WriteJSON(w, http.StatusServiceUnavailable, readyResponse{
			Status: "not ready",
			Reason: err.Error(),
		})
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, readyResponse{Status: "ready"})
}

func rejectionMessage(e *RejectionError) string {
	if e.Reason == "" {
		return "Product unavailable"
	}
	return "Product unavailable: " + e.Reason
}
