package order

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/PreethamDesoden/chaos-resilient-platform/internal/config"
)

// ErrInventoryUnavailable marks a transport-level failure (connection
// refused, timeout) talking to the inventory service — the one dependency
// the workflow cannot proceed without.
var ErrInventoryUnavailable = errors.New("inventory service unavailable")

// RejectionError is a business rejection from the inventory service: the
// product is unknown or stock does not cover the request. It is not a
// system failure.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	if e.Reason == "" {
		return "order rejected: product unavailable"
	}
	return "order rejected: " + e.Reason
}

// ReservationResult mirrors the inventory service's /check payload. On
// rejection only Available and Reason carry meaning.
type ReservationResult struct {
	Available      bool   `json:"available"`
	ProductID      string `json:"product_id"`
	Reserved       int    `json:"reserved"`
	RemainingStock int    `json:"remaining_stock"`
	Reason         string `json:"reason"`
}

// InventoryClient reserves stock on the inventory service.
type InventoryClient interface {
	CheckAndReserve(ctx context.Context, productID string, quantity int) (*ReservationResult, error)
	Health(ctx context.Context) error
}

// NotificationClient sends order confirmations.
type NotificationClient interface {
	Send(ctx context.Context, email, orderID, productID string) error
	Health(ctx context.Context) error
}

// HTTPInventoryClient talks to the inventory service over HTTP+JSON.
type HTTPInventoryClient struct {
	baseURL string
	client  *http.Client
	probe   *http.Client
}

func NewInventoryClient(baseURL string) *HTTPInventoryClient {
	return &HTTPInventoryClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: config.InventoryCallTimeout},
		probe:   &http.Client{Timeout: config.DependencyProbeTimeout},
	}
}

type checkPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CheckAndReserve posts to /check. A transport failure returns an error;
// any HTTP response decodes into a ReservationResult, with non-200 replies
// surfacing as Available=false plus the upstream reason.
func (c *HTTPInventoryClient) CheckAndReserve(ctx context.Context, productID string, quantity int) (*ReservationResult, error) {
	body, err := json.Marshal(checkPayload{ProductID: productID, Quantity: quantity})
	if err != nil {
		return nil, fmt.Errorf("encode check request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/check", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build check request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inventory check: %w", err)
	}
	defer resp.Body.Close()

	var result ReservationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode check response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// The inventory service signals rejections as 404/400 with an
		// available=false body; normalize anything else the same way.
		result.Available = false
	}
	return &result, nil
}

// Health probes GET /health with the short readiness timeout.
func (c *HTTPInventoryClient) Health(ctx context.Context) error {
	return probeHealth(ctx, c.probe, c.baseURL, config.InventoryServiceName)
}

// HTTPNotificationClient talks to the notification service over HTTP+JSON.
type HTTPNotificationClient struct {
	baseURL string
	client  *http.Client
	probe   *http.Client
}

func NewNotificationClient(baseURL string) *HTTPNotificationClient {
	return &HTTPNotificationClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: config.NotificationCallTimeout},
		probe:   &http.Client{Timeout: config.DependencyProbeTimeout},
	}
}

type notifyPayload struct {
	Email     string `json:"email"`
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
}

// Send posts the confirmation to /notify. Callers treat any error as
// non-critical; the order stands either way.
func (c *HTTPNotificationClient) Send(ctx context.Context, email, orderID, productID string) error {
	body, err := json.Marshal(notifyPayload{Email: email, OrderID: orderID, ProductID: productID})
	if err != nil {
		return fmt.Errorf("encode notify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notify", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("notification send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notification service returned status %d", resp.StatusCode)
	}
	return nil
}

// Health probes GET /health with the short readiness timeout.
func (c *HTTPNotificationClient) Health(ctx context.Context) error {
	return probeHealth(ctx, c.probe, c.baseURL, config.NotificationServiceName)
}

func probeHealth(ctx context.Context, client *http.Client, baseURL, service string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build %s health request: %w", service, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s unreachable: %w", service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s unhealthy: status %d", service, resp.StatusCode)
	}
	return nil
}
