package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"weeklybudget/internal/core"
	exportmem "weeklybudget/internal/export/memory"
	"weeklybudget/internal/store/memory"
	"weeklybudget/internal/widget"
)

// fixture wires a service against in-memory collaborators with a settable
// clock.
type fixture struct {
	svc      *BudgetService
	store    *memory.Store
	widget   *widget.Publisher
	exporter *exportmem.Exporter
	now      time.Time
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	f := &fixture{
		store:    memory.New(),
		exporter: exportmem.New(),
		now:      now,
	}
	f.widget = widget.NewPublisher(f.store, nil)
	f.svc = NewBudgetService(f.store, f.widget, core.DefaultCalendar(),
		WithExporter(f.exporter),
		WithClock(func() time.Time { return f.now }))
	return f
}

var monday = time.Date(2024, 11, 11, 7, 0, 0, 0, time.UTC)

func TestSetupWeek(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, monday)

	window, err := f.svc.SetupWeek(ctx, core.Money{Cents: 100_000_00})
	if err != nil {
		t.Fatalf("SetupWeek: %v", err)
	}

	if window.DailyBudget.Cents != 14_285_00 {
		t.Errorf("DailyBudget = %d, want %d", window.DailyBudget.Cents, int64(14_285_00))
	}
	if !window.StartDate.Equal(monday) {
		t.Errorf("StartDate = %v, want %v", window.StartDate, monday)
	}

	snap := f.widget.Read(ctx)
	if snap.RemainingBudget.Cents != 100_000_00 ||
		snap.DailyAvailable.Cents != 14_285_00 ||
		snap.TodayRemainingBudget.Cents != 14_285_00 {
		t.Errorf("initial snapshot = %+v", snap)
	}

	status, err := f.svc.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.RemainingDays != 7 {
		t.Errorf("RemainingDays = %d, want 7", status.RemainingDays)
	}
}

func TestSetupWeekRejectsNonPositiveBudget(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, monday)

	for _, cents := range []int64{0, -100} {
		if _, err := f.svc.SetupWeek(ctx, core.Money{Cents: cents}); !errors.Is(err, core.ErrInvalidBudget) {
			t.Errorf("budget %d: err = %v, want ErrInvalidBudget", cents, err)
		}
	}
}

func TestAddEditRemoveExpense(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, monday)
	if _, err := f.svc.SetupWeek(ctx, core.Money{Cents: 100_000_00}); err != nil {
		t.Fatalf("SetupWeek: %v", err)
	}

	// Add 15000 on day 1.
	exp, err := f.svc.AddExpense(ctx, core.Money{Cents: 15_000_00}, "lunch", nil)
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	status, _ := f.svc.Status(ctx)
	if status.TotalSpent.Cents != 15_000_00 || status.TodaySpent.Cents != 15_000_00 {
		t.Errorf("after add: total=%d today=%d", status.TotalSpent.Cents, status.TodaySpent.Cents)
	}
	if status.RemainingBudget.Cents != 85_000_00 {
		t.Errorf("remaining = %d, want %d", status.RemainingBudget.Cents, int64(85_000_00))
	}
	if snap := f.widget.Read(ctx); snap.RemainingBudget.Cents != 85_000_00 {
		t.Errorf("snapshot remaining = %d", snap.RemainingBudget.Cents)
	}

	// Edit to 20000: total replaces, id and date survive.
	edited, err := f.svc.EditExpense(ctx, exp.ID, core.Money{Cents: 20_000_00}, "team lunch")
	if err != nil {
		t.Fatalf("EditExpense: %v", err)
	}
	if edited.ID != exp.ID || !edited.Date.Equal(exp.Date) {
		t.Error("edit must preserve id and original date")
	}
	status, _ = f.svc.Status(ctx)
	if status.TotalSpent.Cents != 20_000_00 {
		t.Errorf("after edit: total = %d, want %d (not 35000)", status.TotalSpent.Cents, int64(20_000_00))
	}

	// Remove.
	if err := f.svc.RemoveExpense(ctx, exp.ID); err != nil {
		t.Fatalf("RemoveExpense: %v", err)
	}
	status, _ = f.svc.Status(ctx)
	if status.TotalSpent.Cents != 0 {
		t.Errorf("after remove: total = %d", status.TotalSpent.Cents)
	}
}

func TestExpenseNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, monday)
	_, _ = f.svc.SetupWeek(ctx, core.Money{Cents: 100_000_00})

	ghost, _ := f.svc.AddExpense(ctx, core.Money{Cents: 100}, "", nil)
	_ = f.svc.RemoveExpense(ctx, ghost.ID)

	if _, err := f.svc.EditExpense(ctx, ghost.ID, core.Money{Cents: 200}, ""); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("edit missing: %v", err)
	}
	if err := f.svc.RemoveExpense(ctx, ghost.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("remove missing: %v", err)
	}
}

func TestAddExpenseWithoutActiveWeek(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, monday)

	if _, err := f.svc.AddExpense(ctx, core.Money{Cents: 100}, "", nil); !errors.Is(err, core.ErrNoActiveWeek) {
		t.Errorf("err = %v, want ErrNoActiveWeek", err)
	}
}

func TestExpenseRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, monday)
	_, _ = f.svc.SetupWeek(ctx, core.Money{Cents: 100_000_00})

	tag, _ := f.svc.AddTag(ctx, "food")
	a, _ := f.svc.AddExpense(ctx, core.Money{Cents: 1500}, "coffee", []core.Tag{tag})
	b, _ := f.svc.AddExpense(ctx, core.Money{Cents: 9900}, "", nil)

	loaded, err := f.svc.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d expenses", len(loaded))
	}
	if loaded[0].ID != a.ID || loaded[1].ID != b.ID {
		t.Error("order or ids not preserved")
	}
	if loaded[0].Amount != a.Amount || loaded[0].Description != a.Description {
		t.Error("amount or description not preserved")
	}
	if !loaded[0].Date.Equal(a.Date) {
		t.Error("date not preserved")
	}
	if len(loaded[0].Tags) != 1 || loaded[0].Tags[0] != tag {
		t.Error("tags not preserved")
	}
}

func TestRolloverArchivesExpiredWeek(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, monday)
	window, _ := f.svc.SetupWeek(ctx, core.Money{Cents: 100_000_00})

	_, _ = f.svc.AddExpense(ctx, core.Money{Cents: 15_000_00}, "groceries", nil)
	_, _ = f.svc.AddExpense(ctx, core.Money{Cents: 20_000_00}, "dinner", nil)

	// Jump past the window end.
	f.now = window.EndDate.Add(time.Hour)

	rolled, err := f.svc.CheckRollover(ctx)
	if err != nil {
		t.Fatalf("CheckRollover: %v", err)
	}
	if !rolled {
		t.Fatal("expected rollover")
	}

	history, _ := f.svc.History(ctx)
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	entry := history[0]
	if entry.TotalSpent.Cents != 35_000_00 {
		t.Errorf("TotalSpent = %d, want %d", entry.TotalSpent.Cents, int64(35_000_00))
	}
	if !entry.StartDate.Equal(window.StartDate) || !entry.EndDate.Equal(window.EndDate) {
		t.Error("entry dates must match the archived window")
	}
	if len(entry.Expenses) != 2 {
		t.Errorf("archived %d expenses, want 2", len(entry.Expenses))
	}

	// Active state cleared, snapshot zeroed, ledger empty.
	if _, ok, _ := f.svc.CurrentWeek(ctx); ok {
		t.Error("window should be cleared")
	}
	if expenses, _ := f.svc.ListExpenses(ctx); len(expenses) != 0 {
		t.Errorf("ledger should be empty, has %d", len(expenses))
	}
	if snap := f.widget.Read(ctx); snap != (core.WidgetSnapshot{}) {
		t.Errorf("snapshot should be zeroed, got %+v", snap)
	}

	// Exported exactly once.
	if exported := f.exporter.Entries(); len(exported) != 1 || exported[0].TotalSpent.Cents != 35_000_00 {
		t.Errorf("exporter entries = %+v", exported)
	}
}

func TestRolloverIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, monday)
	window, _ := f.svc.SetupWeek(ctx, core.Money{Cents: 50_000_00})
	f.now = window.EndDate.Add(time.Minute)

	first, err := f.svc.CheckRollover(ctx)
	if err != nil || !first {
		t.Fatalf("first rollover: rolled=%v err=%v", first, err)
	}
	second, err := f.svc.CheckRollover(ctx)
	if err != nil {
		t.Fatalf("second rollover: %v", err)
	}
	if second {
		t.Error("second invocation must be a no-op")
	}

	history, _ := f.svc.History(ctx)
	if len(history) != 1 {
		t.Errorf("history length = %d, want exactly 1", len(history))
	}
}

// Setup before the week-start hour yields a window whose start is still
// ahead. That window must survive rollover checks until its end passes.
func TestRolloverLeavesUpcomingWindowAlone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, monday.Add(-time.Hour)) // Monday 06:00

	window, err := f.svc.SetupWeek(ctx, core.Money{Cents: 100_000_00})
	if err != nil {
		t.Fatalf("SetupWeek: %v", err)
	}
	if !window.StartDate.Equal(monday) {
		t.Fatalf("StartDate = %v, want upcoming %v", window.StartDate, monday)
	}

	f.now = monday.Add(-30 * time.Minute) // Monday 06:30, still pre-start
	rolled, err := f.svc.CheckRollover(ctx)
	if err != nil {
		t.Fatalf("CheckRollover: %v", err)
	}
	if rolled {
		t.Fatal("a window that has not started must not roll over")
	}
	if history, _ := f.svc.History(ctx); len(history) != 0 {
		t.Errorf("history length = %d, want 0", len(history))
	}
	if _, ok, _ := f.svc.CurrentWeek(ctx); !ok {
		t.Error("upcoming window must stay active")
	}

	// Once the end passes the same window archives normally.
	f.now = window.EndDate.Add(time.Minute)
	rolled, err = f.svc.CheckRollover(ctx)
	if err != nil || !rolled {
		t.Fatalf("post-end rollover: rolled=%v err=%v", rolled, err)
	}
	if history, _ := f.svc.History(ctx); len(history) != 1 {
		t.Errorf("history length = %d, want 1", len(history))
	}
}

func TestRolloverDoesNothingMidWeek(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, monday)
	_, _ = f.svc.SetupWeek(ctx, core.Money{Cents: 50_000_00})

	f.now = monday.AddDate(0, 0, 3) // Thursday
	rolled, err := f.svc.CheckRollover(ctx)
	if err != nil || rolled {
		t.Fatalf("mid-week rollover: rolled=%v err=%v", rolled, err)
	}
	if history, _ := f.svc.History(ctx); len(history) != 0 {
		t.Error("history must stay empty mid-week")
	}
}

func TestTickRefreshesSnapshotAcrossDayBoundary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, monday)
	window, _ := f.svc.SetupWeek(ctx, core.Money{Cents: 70_000_00})
	_, _ = f.svc.AddExpense(ctx, core.Money{Cents: 4_000_00}, "monday spend", nil)

	snap := f.widget.Read(ctx)
	if snap.TodayRemainingBudget.Cents != window.DailyBudget.Cents-4_000_00 {
		t.Fatalf("today remaining = %d", snap.TodayRemainingBudget.Cents)
	}

	// Next day: today's spend resets, remaining budget does not.
	f.now = monday.AddDate(0, 0, 1)
	if err := f.svc.Tick(ctx); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	snap = f.widget.Read(ctx)
	if snap.TodayRemainingBudget.Cents != window.DailyBudget.Cents {
		t.Errorf("tuesday today remaining = %d, want full allowance %d",
			snap.TodayRemainingBudget.Cents, window.DailyBudget.Cents)
	}
	if snap.RemainingBudget.Cents != 66_000_00 {
		t.Errorf("remaining = %d, want %d", snap.RemainingBudget.Cents, int64(66_000_00))
	}
}

func TestStatusWithoutActiveWeek(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, monday)

	if _, err := f.svc.Status(ctx); !errors.Is(err, core.ErrNoActiveWeek) {
		t.Errorf("err = %v, want ErrNoActiveWeek", err)
	}
}

func TestMalformedStoredWindowReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, monday)

	_ = f.store.Set(ctx, "currentWeekInfo", []byte("{{corrupt"))
	if _, ok, err := f.svc.CurrentWeek(ctx); ok || err != nil {
		t.Errorf("corrupt window: ok=%v err=%v", ok, err)
	}
}
