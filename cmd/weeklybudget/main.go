package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"weeklybudget/internal/backend"
	"weeklybudget/internal/config"
	apphttp "weeklybudget/internal/http"
	applog "weeklybudget/internal/log"
	"weeklybudget/internal/services"
	"weeklybudget/internal/widget"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	cal, err := cfg.Calendar()
	if err != nil {
		logger.Error("Invalid week calendar configuration", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
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

	var notifier widget.Notifier
	if result.AMQP != nil {
		notifier = result.AMQP
	}
	pub := widget.NewPublisher(result.Store, notifier)

	opts := []services.Option{}
	if result.Exporter != nil {
		opts = append(opts, services.WithExporter(result.Exporter))
	}
	svc := services.NewBudgetService(result.Store, pub, cal, opts...)

	srv := apphttp.NewServer(":"+cfg.Port, svc, pub, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting weeklybudget server",
			"port", cfg.Port,
			"store_backend", cfg.StoreBackend,
			"amqp_enabled", result.AMQP != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Periodic rollover so the week archives even while no client reads.
	g.Go(func() error {
		rolloverLogger := logger.WithComponent(applog.ComponentRollover)
		ticker := time.NewTicker(cfg.RolloverCheckInterval)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := svc.Tick(gctx); err != nil {
					rolloverLogger.ErrorContext(gctx, "Rollover tick failed", applog.FieldError, err)
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
