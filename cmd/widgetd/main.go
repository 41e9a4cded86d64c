// widgetd renders the shared snapshot for a display surface that cannot
// run the full app: it listens for refresh notifications and prints the
// three numbers, polling the store as a fallback when AMQP is not
// configured.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"weeklybudget/internal/amqp"
	"weeklybudget/internal/backend"
	"weeklybudget/internal/config"
	"weeklybudget/internal/core"
	applog "weeklybudget/internal/log"
	"weeklybudget/internal/widget"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentWidget})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	// The daemon only reads; it never exports history.
	backendCfg.HistoryExport = "none"

	result, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err)
		os.Exit(1)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Warn("Backend cleanup failed", applog.FieldError, err)
		}
	}()

	pub := widget.NewPublisher(result.Store, nil)

	if result.AMQP != nil {
		logger.Info("Listening for widget refresh notifications",
			"exchange", cfg.AMQPExchange,
			"queue", cfg.AMQPQueue)
		err := result.AMQP.ConsumeWidgetRefresh(ctx, func(msg *amqp.WidgetRefreshMessage) error {
			render(logger, msg.Snapshot())
			return nil
		})
		if err != nil && ctx.Err() == nil {
			logger.Error("Consumer stopped", applog.FieldError, err)
			os.Exit(1)
		}
		return
	}

	// No broker: poll the shared store instead.
	logger.Info("No AMQP configured, polling store", "interval", cfg.RolloverCheckInterval.String())
	ticker := time.NewTicker(cfg.RolloverCheckInterval)
	defer ticker.Stop()

	render(logger, pub.Read(ctx))
	for {
		select {
		case <-ctx.Done():
			logger.Info("Widget daemon stopped")
			return
		case <-ticker.C:
			render(logger, pub.Read(ctx))
		}
	}
}

func render(logger *applog.Logger, snap core.WidgetSnapshot) {
	logger.Info("Widget snapshot",
		"remaining_budget", snap.RemainingBudget.String(),
		"daily_available", snap.DailyAvailable.String(),
		"today_remaining", snap.TodayRemainingBudget.String())
}
