package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/PreethamDesoden/chaos-resilient-platform/internal/config"
	"github.com/PreethamDesoden/chaos-resilient-platform/internal/order"
	"github.com/PreethamDesoden/chaos-resilient-platform/internal/platform/httpserver"
	"github.com/PreethamDesoden/chaos-resilient-platform/internal/platform/observability"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		stdlog.Fatalf("order-service failed: %v", err)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadOrder()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, obsShutdown, err := observability.Init(ctx, config.OrderServiceName, cfg.Observability)
	if err != nil {
		return err
	}
	defer func() {
		if err := obsShutdown(context.Background()); err != nil {
			logger.Error("Failed to shutdown telemetry", zap.Error(err))
		}
		_ = logger.Sync()
	}()

	metrics := order.NewMetrics()
	inventoryClient := order.NewInventoryClient(cfg.InventoryURL)
	notificationClient := order.NewNotificationClient(cfg.NotificationURL)

	workflow := order.NewWorkflow(
		inventoryClient,
		notificationClient,
		metrics,
		logger,
		otel.Tracer(config.OrderServiceName),
	)
	handler := order.NewHandler(workflow, inventoryClient, notificationClient, metrics, metrics.Handler(), logger)

	router := httpserver.NewRouter(logger)
	handler.Routes(router)

	logger.Info("Application initialized successfully",
		zap.String("inventory_url", cfg.InventoryURL),
		zap.String("notification_url", cfg.NotificationURL),
	)
	return httpserver.Run(ctx, logger, ":"+cfg.Port, router)
}
