package order

import (
	"context"
	"fmt"
	"time"

	"github.com/PreethamDesoden/chaos-resilient-platform/internal/platform/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Request is an inbound order request. Quantity below one defaults to one;
// nothing else is validated.
type Request struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Email     string `json:"email"`
}

// Confirmation is the synthesized result of a placed order. Orders are not
// stored; this value is the only artifact of the request.
type Confirmation struct {
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Workflow runs the order-placement sequence: reserve stock on the
// inventory service (required, blocking), then send a confirmation through
// the notification service (best-effort). It holds no state across
// requests.
type Workflow struct {
	inventory InventoryClient
	notifier  NotificationClient
	observer  Observer
	logger    *zap.Logger
	tracer    observability.Tracer
}

func NewWorkflow(inventory InventoryClient, notifier NotificationClient, observer Observer, logger *zap.Logger, tracer observability.Tracer) *Workflow {
	return &Workflow{
		inventory: inventory,
		notifier:  notifier,
		observer:  observer,
		logger:    logger,
		tracer:    tracer,
	}
}

// PlaceOrder executes the workflow once. Failure of the reserve step aborts
// before an order id exists; failure of the notify step is logged and
// absorbed, so the caller still gets a confirmed order.
func (w *Workflow) PlaceOrder(ctx context.Context, req Request) (*Confirmation, error) {
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	w.logger.Info("Received order",
		zap.String("product_id", req.ProductID),
		zap.Int("quantity", req.Quantity),
	)

	result, err := w.reserve(ctx, req)
	if err != nil {
		return nil, err
	}
	if !result.Available {
		w.observer.InventoryCall(CallRejected)
		return nil, &RejectionError{Reason: result.Reason}
	}
	w.observer.InventoryCall(CallSuccess)

	orderID := GenerateOrderID(time.Now())

	w.notify(ctx, req, orderID)

	w.logger.Info("Order created", zap.String("order_id", orderID))
	return &Confirmation{
		OrderID:   orderID,
		Status:    "confirmed",
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}, nil
}

func (w *Workflow) reserve(ctx context.Context, req Request) (*ReservationResult, error) {
	ctx, span := w.tracer.Start(ctx, "inventory_reserve")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", req.ProductID),
		attribute.Int("order.quantity", req.Quantity),
	)

	result, err := w.inventory.CheckAndReserve(ctx, req.ProductID, req.Quantity)
	if err != nil {
		span.SetStatus(codes.Error, "inventory service unreachable")
		w.observer.InventoryCall(CallFailure)
		w.logger.Error("Inventory service error", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInventoryUnavailable, err)
	}

	span.SetAttributes(attribute.Bool("inventory.available", result.Available))
	if result.Available {
		span.SetAttributes(attribute.Int("inventory.remaining_stock", result.RemainingStock))
		span.SetStatus(codes.Ok, "stock reserved")
	} else {
		span.SetStatus(codes.Ok, "reservation rejected")
	}
	return result, nil
}

// notify is the best-effort leg: a failed send changes nothing about the
// order's outcome.
func (w *Workflow) notify(ctx context.Context, req Request, orderID string) {
	ctx, span := w.tracer.Start(ctx, "notification_send")
	defer span.End()

	span.SetAttributes(
		attribute.String("order.id", orderID),
		attribute.String("product.id", req.ProductID),
	)

	if err := w.notifier.Send(ctx, req.Email, orderID, req.ProductID); err != nil {
		span.SetStatus(codes.Error, "notification failed")
		w.observer.NotificationCall(CallFailure)
		w.logger.Warn("Notification failed (non-critical)", zap.Error(err))
		return
	}

	span.SetStatus(codes.Ok, "notification sent")
	w.observer.NotificationCall(CallSuccess)
}

// GenerateOrderID derives an id from the wall clock at second resolution,
// matching the demo's traffic assumptions: two orders placed within the
// same second collide, and that is accepted at this scope.
func GenerateOrderID(now time.Time) string {
	return "ORD-" + now.Format("20060102150405")
}
