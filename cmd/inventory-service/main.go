package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/PreethamDesoden/chaos-resilient-platform/internal/config"
	"github.com/PreethamDesoden/chaos-resilient-platform/internal/inventory"
	"github.com/PreethamDesoden/chaos-resilient-platform/internal/platform/httpserver"
	"github.com/PreethamDesoden/chaos-resilient-platform/internal/platform/observability"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		stdlog.Fatalf("inventory-service failed: %v", err)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.LoadInventory()

	logger, obsShutdown, err := observability.Init(ctx, config.InventoryServiceName, cfg.Observability)
	if err != nil {
		return err
	}
	defer func() {
		if err := obsShutdown(context.Background()); err != nil {
			logger.Error("Failed to shutdown telemetry", zap.Error(err))
		}
		_ = logger.Sync()
	}()

	store := inventory.NewStore()
	handler := inventory.NewHandler(store, logger)

	router := httpserver.NewRouter(logger)
	handler.Routes(router)

	logger.Info("Application initialized successfully")
	return httpserver.Run(ctx, logger, ":"+cfg.Port, router)
}
