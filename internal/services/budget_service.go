// Package services orchestrates the budget week lifecycle over the shared
// store: setup, expense tracking, and the week rollover into history.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"weeklybudget/internal/core"
	"weeklybudget/internal/export"
	"weeklybudget/internal/store"
	"weeklybudget/internal/widget"
)

// BudgetService owns the active week window and its ledger. All state
// lives in the injected store; the service itself is stateless between
// calls, so every operation reads, mutates, and writes back synchronously.
type BudgetService struct {
	store    store.Store
	widget   *widget.Publisher
	exporter export.HistoryExporter // optional
	cal      core.Calendar
	now      func() time.Time
}

// Option configures a BudgetService.
type Option func(*BudgetService)

// WithExporter attaches a best-effort history exporter.
func WithExporter(e export.HistoryExporter) Option {
	return func(s *BudgetService) { s.exporter = e }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *BudgetService) { s.now = now }
}

func NewBudgetService(st store.Store, pub *widget.Publisher, cal core.Calendar, opts ...Option) *BudgetService {
	s := &BudgetService{
		store:  st,
		widget: pub,
		cal:    cal,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status is what the presentation layer renders for the active week.
type Status struct {
	Window          core.WeekWindow     `json:"window"`
	RemainingDays   int                 `json:"remainingDays"`
	TotalSpent      core.Money          `json:"totalSpent"`
	TodaySpent      core.Money          `json:"todaySpent"`
	RemainingBudget core.Money          `json:"remainingBudget"`
	TodayRemaining  core.Money          `json:"todayRemaining"`
	Snapshot        core.WidgetSnapshot `json:"snapshot"`
}

// SetupWeek starts a fresh budgeting week: it computes the window for now,
// fixes the daily allowance from the days left, resets the ledger, and
// publishes the initial widget snapshot.
func (s *BudgetService) SetupWeek(ctx context.Context, budget core.Money) (core.WeekWindow, error) {
	if err := budget.Validate(); err != nil {
		return core.WeekWindow{}, core.ErrInvalidBudget
	}

	window := s.cal.NewWeekWindow(s.now(), budget)
	if err := store.SetJSON(ctx, s.store, store.KeyCurrentWeek, window); err != nil {
		return core.WeekWindow{}, fmt.Errorf("save week window: %w", err)
	}
	if err := store.SetJSON(ctx, s.store, store.KeyExpenses, []core.Expense{}); err != nil {
		return core.WeekWindow{}, fmt.Errorf("reset expenses: %w", err)
	}

	s.widget.Publish(ctx, core.WidgetSnapshot{
		RemainingBudget:      window.Budget,
		DailyAvailable:       window.DailyBudget,
		TodayRemainingBudget: window.DailyBudget,
	})

	slog.InfoContext(ctx, "Week set up",
		"week_start", window.StartDate,
		"week_end", window.EndDate,
		"budget_cents", window.Budget.Cents,
		"daily_budget_cents", window.DailyBudget.Cents)

	return window, nil
}

// CurrentWeek loads the stored window. A missing or undecodable window
// reads as absent, which sends the caller back to the setup flow.
func (s *BudgetService) CurrentWeek(ctx context.Context) (core.WeekWindow, bool, error) {
	var window core.WeekWindow
	if err := store.GetJSON(ctx, s.store, store.KeyCurrentWeek, &window); err != nil {
		return core.WeekWindow{}, false, fmt.Errorf("load week window: %w", err)
	}
	if window.IsZero() || window.Validate() != nil {
		return core.WeekWindow{}, false, nil
	}
	return window, true, nil
}

// Status derives the numbers for the active week. Returns
// core.ErrNoActiveWeek when no window is set.
func (s *BudgetService) Status(ctx context.Context) (Status, error) {
	window, ok, err := s.CurrentWeek(ctx)
	if err != nil {
		return Status{}, err
	}
	if !ok {
		return Status{}, core.ErrNoActiveWeek
	}

	expenses, err := s.loadExpenses(ctx)
	if err != nil {
		return Status{}, err
	}

	now := s.now()
	total := core.TotalSpent(expenses)
	today := core.SpentOn(expenses, now, s.cal.Location)
	return Status{
		Window:          window,
		RemainingDays:   s.cal.RemainingDays(now, window.EndDate),
		TotalSpent:      total,
		TodaySpent:      today,
		RemainingBudget: window.Budget.Sub(total),
		TodayRemaining:  window.DailyBudget.Sub(today),
		Snapshot:        s.widget.Read(ctx),
	}, nil
}

// CheckRollover archives the active week once its window has passed.
// One-shot: after the archive the window and ledger are gone, so a second
// call finds nothing and reports false.
func (s *BudgetService) CheckRollover(ctx context.Context) (bool, error) {
	window, ok, err := s.CurrentWeek(ctx)
	if err != nil {
		return false, err
	}
	// Only an elapsed window rolls over. A window whose start is still
	// ahead (setup before the week-start hour) is left alone.
	if !ok || s.now().Before(window.EndDate) {
		return false, nil
	}

	expenses, err := s.loadExpenses(ctx)
	if err != nil {
		return false, fmt.Errorf("load expenses for archive: %w", err)
	}

	entry := core.NewWeekHistoryEntry(window, expenses)

	var history []core.WeekHistoryEntry
	if err := store.GetJSON(ctx, s.store, store.KeyWeekHistory, &history); err != nil {
		return false, fmt.Errorf("load week history: %w", err)
	}
	history = append(history, entry)
	if err := store.SetJSON(ctx, s.store, store.KeyWeekHistory, history); err != nil {
		return false, fmt.Errorf("save week history: %w", err)
	}

	if s.exporter != nil {
		if err := s.exporter.AppendWeek(ctx, entry); err != nil {
			slog.WarnContext(ctx, "History export failed", "error", err)
		}
	}

	if err := s.store.Delete(ctx, store.KeyExpenses); err != nil {
		return false, fmt.Errorf("clear expenses: %w", err)
	}
	if err := s.store.Delete(ctx, store.KeyCurrentWeek); err != nil {
		return false, fmt.Errorf("clear week window: %w", err)
	}
	s.widget.Zero(ctx)

	slog.InfoContext(ctx, "Week rolled over into history",
		"week_start", entry.StartDate,
		"week_end", entry.EndDate,
		"total_spent_cents", entry.TotalSpent.Cents,
		"expense_count", len(entry.Expenses))

	return true, nil
}

// Tick is the periodic check the hosting application runs: roll over an
// expired week, and otherwise refresh the snapshot so the today numbers
// track day-boundary crossings.
func (s *BudgetService) Tick(ctx context.Context) error {
	rolled, err := s.CheckRollover(ctx)
	if err != nil || rolled {
		return err
	}

	window, ok, err := s.CurrentWeek(ctx)
	if err != nil || !ok {
		return err
	}
	expenses, err := s.loadExpenses(ctx)
	if err != nil {
		return err
	}
	s.publishSnapshot(ctx, window, expenses)
	return nil
}

// History returns the archived weeks, oldest first.
func (s *BudgetService) History(ctx context.Context) ([]core.WeekHistoryEntry, error) {
	var history []core.WeekHistoryEntry
	if err := store.GetJSON(ctx, s.store, store.KeyWeekHistory, &history); err != nil {
		return nil, fmt.Errorf("load week history: %w", err)
	}
	return history, nil
}

func (s *BudgetService) loadExpenses(ctx context.Context) ([]core.Expense, error) {
	var expenses []core.Expense
	if err := store.GetJSON(ctx, s.store, store.KeyExpenses, &expenses); err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	return expenses, nil
}

func (s *BudgetService) saveExpenses(ctx context.Context, expenses []core.Expense) error {
	if err := store.SetJSON(ctx, s.store, store.KeyExpenses, expenses); err != nil {
		return fmt.Errorf("save expenses: %w", err)
	}
	return nil
}

// publishSnapshot recomputes the three widget numbers from current state.
// Remaining budget tracks spending; the daily allowance stays at the value
// fixed when the window was created.
func (s *BudgetService) publishSnapshot(ctx context.Context, window core.WeekWindow, expenses []core.Expense) {
	total := core.TotalSpent(expenses)
	today := core.SpentOn(expenses, s.now(), s.cal.Location)
	s.widget.Publish(ctx, core.WidgetSnapshot{
		RemainingBudget:      window.Budget.Sub(total),
		DailyAvailable:       window.DailyBudget,
		TodayRemainingBudget: window.DailyBudget.Sub(today),
	})
}
