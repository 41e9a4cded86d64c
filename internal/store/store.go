// Package store defines the shared key-value persistence port the app and
// the widget display surface both read from. Keys are independent; writes
// are last-write-wins with no multi-key atomicity.
package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
)

// Keys of the shared store.
const (
	KeyExpenses        = "expenses"
	KeyCurrentWeek     = "currentWeekInfo"
	KeyWeekHistory     = "weekHistory"
	KeyTags            = "expenseTags"
	KeyRemainingBudget = "remainingBudget"
	KeyDailyAvailable  = "dailyAvailable"
	KeyTodayRemaining  = "todayRemainingBudget"
)

// Store is the persistence port. Implementations: memory, sqlite, redis.
type Store interface {
	// Get returns the raw value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// GetJSON decodes the value at key into out. Absent keys and undecodable
// payloads leave out at its zero value and return nil: persisted state is
// versionless, and a bad payload degrades to "empty" rather than erroring.
func GetJSON[T any](ctx context.Context, s Store, key string, out *T) error {
	var zero T
	*out = zero
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		slog.WarnContext(ctx, "Discarding undecodable stored value", "key", key, "error", err)
		*out = zero
	}
	return nil
}

// SetJSON encodes v and writes it at key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, raw)
}

// GetCents reads a scalar amount in cents; absent or malformed values read
// as zero.
func GetCents(ctx context.Context, s Store, key string) (int64, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		slog.WarnContext(ctx, "Discarding malformed stored scalar", "key", key, "error", err)
		return 0, nil
	}
	return n, nil
}

// SetCents writes a scalar amount in cents.
func SetCents(ctx context.Context, s Store, key string, cents int64) error {
	return s.Set(ctx, key, []byte(strconv.FormatInt(cents, 10)))
}
