package inventory

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

// Handler serves the inventory service's HTTP API.
type Handler struct {
	store  *Store
	logger *zap.Logger
}

func NewHandler(store *Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Routes registers every inventory endpoint on the router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/check", h.Check)
	r.Get("/inventory", h.List)
	r.Get("/inventory/{id}", h.GetProduct)
	r.Get("/health", httpapi.Health(config.InventoryServiceName))
	r.Get("/ready", httpapi.Ready)
}

type checkRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type reserveResponse struct {
	Available      bool   `json:"available"`
	ProductID      string `json:"product_id"`
	Reserved       int    `json:"reserved"`
	RemainingStock int    `json:"remaining_stock"`
}

type notFoundResponse struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason"`
}

type insufficientResponse struct {
	Available      bool   `json:"available"`
	Reason         string `json:"reason"`
	Requested      int    `json:"requested"`
	AvailableStock int    `json:"available_stock"`
}

// Check reserves stock: it atomically decrements on success, answers 404
// for unknown products, and 400 for insufficient stock.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Inventory check failed", zap.Error(err))
		httpapi.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	h.logger.Info("Checking inventory",
		zap.String("product_id", req.ProductID),
		zap.Int("quantity", req.Quantity),
	)

	reservation, err := h.store.Reserve(req.ProductID, req.Quantity)
	if err != nil {
		var insufficient *InsufficientStockError
		switch {
		case errors.Is(err, ErrNotFound):
			httpapi.WriteJSON(w, http.StatusNotFound, notFoundResponse{
				Available: false,
				Reason:    "Product not found",
			})
		case errors.As(err, &insufficient):
			httpapi.WriteJSON(w, http.StatusBadRequest, insufficientResponse{
				Available:      false,
				Reason:         "Insufficient stock",
				Requested:      insufficient.Requested,
				AvailableStock: insufficient.Available,
			})
		default:
			h.logger.Error("Inventory check failed", zap.Error(err))
			httpapi.WriteError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	h.logger.Info("Stock reserved",
		zap.String("product_id", reservation.ProductID),
		zap.Int("reserved", reservation.Reserved),
		zap.Int("remaining", reservation.Remaining),
	)

	httpapi.WriteJSON(w, http.StatusOK, reserveResponse{
		Available:      true,
		ProductID:      reservation.ProductID,
		Reserved:       reservation.Reserved,
		RemainingStock: reservation.Remaining,
	})
}

// List returns the full catalog with current stock levels.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"inventory": h.store.Snapshot(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// GetProduct returns a single product or 404.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	product, ok := h.store.Get(productID)
	if !ok {
		httpapi.WriteError(w, http.StatusNotFound, "Product not found")
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"product_id": productID,
		"details":    product,
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}
