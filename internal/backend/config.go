package backend

import (
	"fmt"

	"weeklybudget/internal/config"
)

// FromAppConfig converts the application config to backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	store := StoreBackend(appConfig.StoreBackend)
	if !store.IsValid() {
		return Config{}, fmt.Errorf("invalid store backend in config: %s", appConfig.StoreBackend)
	}

	return Config{
		Store:         store,
		SQLiteDBPath:  appConfig.SQLiteDBPath,
		RedisURL:      appConfig.RedisURL,
		AMQPURL:       appConfig.AMQPURL,
		AMQPExchange:  appConfig.AMQPExchange,
		AMQPQueue:     appConfig.AMQPQueue,
		HistoryExport: appConfig.HistoryExport,
	}, nil
}

// Validate checks the backend configuration.
func (c Config) Validate() error {
	if !c.Store.IsValid() {
		return fmt.Errorf("invalid store backend: %s", c.Store)
	}

	switch c.Store {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case RedisBackend:
		if c.RedisURL == "" {
			return fmt.Errorf("Redis URL is required for redis backend")
		}
	case MemoryBackend:
	}

	switch c.HistoryExport {
	case "", "none", "sheets":
	default:
		return fmt.Errorf("invalid history export '%s': must be 'none' or 'sheets'", c.HistoryExport)
	}

	return nil
}
