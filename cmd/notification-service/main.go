package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/PreethamDesoden/chaos-resilient-platform/internal/config"
	"github.com/PreethamDesoden/chaos-resilient-platform/internal/notification"
	"github.com/PreethamDesoden/chaos-resilient-platform/internal/platform/httpserver"
	"github.com/PreethamDesoden/chaos-resilient-platform/internal/platform/observability"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		stdlog.Fatalf("notification-service failed: %v", err)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.LoadNotification()

	logger, obsShutdown, err := observability.Init(ctx, config.NotificationServiceName, cfg.Observability)
	if err != nil {
		return err
	}
	defer func() {
		if err := obsShutdown(context.Background()); err != nil {
			logger.Error("Failed to shutdown telemetry", zap.Error(err))
		}
		_ = logger.Sync()
	}()

	log := notification.NewLog(cfg.SendDelay)
	handler := notification.NewHandler(log, logger)

	router := httpserver.NewRouter(logger)
	handler.Routes(router)

	logger.Info("Application initialized successfully",
		zap.Duration("send_delay", cfg.SendDelay),
	)
	return httpserver.Run(ctx, logger, ":"+cfg.Port, router)
}
