package backend

import (
	"context"
	"fmt"
	"log/slog"

	"weeklybudget/internal/amqp"
	"weeklybudget/internal/export"
	exportgoogle "weeklybudget/internal/export/google"
	"weeklybudget/internal/store"
	storememory "weeklybudget/internal/store/memory"
	storeredis "weeklybudget/internal/store/redis"
	storesqlite "weeklybudget/internal/store/sqlite"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory.
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		st      store.Store
		cleanup CleanupFunc
		err     error
	)

	switch config.Store {
	case SQLiteBackend:
		sqliteStore, serr := storesqlite.New(config.SQLiteDBPath)
		if serr != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", serr)
		}
		st, cleanup = sqliteStore, sqliteStore.Close
		f.logger.Info("Initialized SQLite store", "db_path", config.SQLiteDBPath)

	case RedisBackend:
		redisStore, rerr := storeredis.New(config.RedisURL)
		if rerr != nil {
			return nil, fmt.Errorf("initialize redis store: %w", rerr)
		}
		st, cleanup = redisStore, redisStore.Close
		f.logger.Info("Initialized Redis store", "url", config.RedisURL)

	case MemoryBackend:
		st = storememory.New()
		f.logger.Info("Initialized in-memory store")

	default:
		return nil, fmt.Errorf("unsupported store backend: %s", config.Store)
	}

	// AMQP is optional; the app works without refresh notifications.
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without widget notifications", "error", err)
			amqpClient = nil
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	var exporter export.HistoryExporter
	if config.HistoryExport == "sheets" {
		exporter, err = exportgoogle.NewFromEnv(ctx)
		if err != nil {
			closeAll(cleanup, amqpClient)
			return nil, fmt.Errorf("initialize sheets exporter: %w", err)
		}
		f.logger.Info("Initialized Google Sheets history exporter")
	}

	return &Result{
		Store:    st,
		AMQP:     amqpClient,
		Exporter: exporter,
		Cleanup: func() error {
			if amqpClient != nil {
				if err := amqpClient.Close(); err != nil {
					f.logger.Warn("Failed to close AMQP client", "error", err)
				}
			}
			if cleanup != nil {
				return cleanup()
			}
			return nil
		},
	}, nil
}

func closeAll(cleanup CleanupFunc, amqpClient *amqp.Client) {
	if amqpClient != nil {
		_ = amqpClient.Close()
	}
	if cleanup != nil {
		_ = cleanup()
	}
}
