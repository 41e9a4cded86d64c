package backend

import (
	"context"

	"weeklybudget/internal/amqp"
	"weeklybudget/internal/export"
	"weeklybudget/internal/store"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// Result bundles everything the application wires from configuration:
// the shared key-value store, the optional AMQP notifier, and the
// optional history exporter. AMQP and Exporter are nil when not
// configured.
type Result struct {
	Store    store.Store
	AMQP     *amqp.Client
	Exporter export.HistoryExporter
	Cleanup  CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// StoreBackend names a key-value store implementation.
type StoreBackend string

const (
	MemoryBackend StoreBackend = "memory"
	SQLiteBackend StoreBackend = "sqlite"
	RedisBackend  StoreBackend = "redis"
)

func (b StoreBackend) String() string {
	return string(b)
}

// IsValid returns true for a known store backend.
func (b StoreBackend) IsValid() bool {
	switch b {
	case MemoryBackend, SQLiteBackend, RedisBackend:
		return true
	default:
		return false
	}
}

// Config holds configuration for backend creation.
type Config struct {
	Store StoreBackend

	// SQLite specific
	SQLiteDBPath string

	// Redis specific
	RedisURL string

	// AMQP widget refresh notifications (optional)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// History export: "none" or "sheets"
	HistoryExport string
}
