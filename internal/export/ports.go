// Package export defines the outbound port for archiving week history to
// an external destination.
package export

import (
	"context"

	"weeklybudget/internal/core"
)

// HistoryExporter receives one entry per archived week. Calls are
// best-effort: rollover never fails because an export did.
type HistoryExporter interface {
	AppendWeek(ctx context.Context, entry core.WeekHistoryEntry) error
}
