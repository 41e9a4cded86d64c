// Package memory collects exported weeks in process, for tests.
package memory

import (
	"context"
	"sync"

	"weeklybudget/internal/core"
)

type Exporter struct {
	mu      sync.Mutex
	entries []core.WeekHistoryEntry
}

func New() *Exporter {
	return &Exporter{}
}

func (e *Exporter) AppendWeek(_ context.Context, entry core.WeekHistoryEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = append(e.entries, entry)
	return nil
}

// Entries returns a copy of everything exported so far.
func (e *Exporter) Entries() []core.WeekHistoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]core.WeekHistoryEntry(nil), e.entries...)
}
