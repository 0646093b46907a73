package notification

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/PreethamDesoden/chaos-resilient-platform/internal/config"
	"github.com/PreethamDesoden/chaos-resilient-platform/internal/httpapi"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// recentLimit caps how many records the listing endpoint returns; the log
// itself is unbounded.
const recentLimit = 10

// Handler serves the notification service's HTTP API.
type Handler struct {
	log    *Log
	logger *zap.Logger
}

func NewHandler(log *Log, logger *zap.Logger) *Handler {
	return &Handler{log: log, logger: logger}
}

// Routes registers every notification endpoint on the router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/notify", h.Notify)
	r.Get("/notifications", h.List)
	r.Get("/health", httpapi.Health(config.NotificationServiceName))
	r.Get("/ready", httpapi.Ready)
}

type notifyRequest struct {
	Email     string `json:"email"`
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
}

// Notify accepts a fire-and-forget confirmation request. There is no
// validation of the email; delivery always succeeds.
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Notification failed", zap.Error(err))
		httpapi.WriteError(w, http.StatusInternalServerError, "Failed to send notification")
		return
	}

	receipt := h.log.Send(req.Email, req.OrderID, req.ProductID)

	h.logger.Info("Notification sent",
		zap.String("email", req.Email),
		zap.String("order_id", req.OrderID),
	)

	httpapi.WriteJSON(w, http.StatusOK, receipt)
}

// List returns the latest notifications plus the total ever sent.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	records, total := h.log.Recent(recentLimit)
	httpapi.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"total":         total,
		"notifications": records,
		"timestamp":     time.Now().Format(time.RFC3339),
	})
}
