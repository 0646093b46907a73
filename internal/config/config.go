package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	OrderServiceName        = "order-service"
	InventoryServiceName    = "inventory-service"
	NotificationServiceName = "notification-service"
	ServiceVersion          = "0.1.0"
)

// Outbound call timeouts for the order workflow. The reserve call is the
// longest because the order cannot proceed without it; readiness probes and
// notifications are cut off sooner.
const (
	InventoryCallTimeout    = 3 * time.Second
	NotificationCallTimeout = 2 * time.Second
	DependencyProbeTimeout  = 2 * time.Second
)

// Observability carries the optional OTLP export settings shared by all
// services. An empty endpoint disables telemetry export entirely.
type Observability struct {
	OtelEndpoint   string
	OtelAuthHeader string
}

// OrderConfig is the order service's startup configuration. Dependency base
// URLs are read once here; there is no hot reload.
type OrderConfig struct {
	Port            string
	InventoryURL    string
	NotificationURL string
	Observability
}

// InventoryConfig is the inventory service's startup configuration.
type InventoryConfig struct {
	Port string
	Observability
}

// NotificationConfig is the notification service's startup configuration.
type NotificationConfig struct {
	Port      string
	SendDelay time.Duration
	Observability
}

// LoadOrder reads the order service configuration from the environment.
func LoadOrder() (*OrderConfig, error) {
	loadDotEnv()

	cfg := &OrderConfig{
		Port:            envOr("PORT", "5000"),
		InventoryURL:    envOr("INVENTORY_SERVICE_URL", "http://inventory-service:5001"),
		NotificationURL: envOr("NOTIFICATION_SERVICE_URL", "http://notification-service:5002"),
		Observability:   loadObservability(),
	}

	for name, raw := range map[string]string{
		"INVENTORY_SERVICE_URL":    cfg.InventoryURL,
		"NOTIFICATION_SERVICE_URL": cfg.NotificationURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%s: invalid base URL %q", name, raw)
		}
	}

	return cfg, nil
}

// LoadInventory reads the inventory service configuration from the environment.
func LoadInventory() *InventoryConfig {
	loadDotEnv()

	return &InventoryConfig{
		Port:          envOr("PORT", "5001"),
		Observability: loadObservability(),
	}
}

// LoadNotification reads the notification service configuration from the
// environment.
func LoadNotification() *NotificationConfig {
	loadDotEnv()

	sendDelay := 100 * time.Millisecond
	if raw := os.Getenv("NOTIFICATION_SEND_DELAY"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
			sendDelay = d
		}
	}

	return &NotificationConfig{
		Port:          envOr("PORT", "5002"),
		SendDelay:     sendDelay,
		Observability: loadObservability(),
	}
}

func loadObservability() Observability {
	return Observability{
		OtelEndpoint:   os.Getenv("OTEL_ENDPOINT"),
		OtelAuthHeader: os.Getenv("OTEL_AUTH_HEADER"),
	}
}

// loadDotEnv pulls in a local .env file when one exists. A missing file is
// fine; the process environment always wins.
func loadDotEnv() {
	_ = godotenv.Load()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
