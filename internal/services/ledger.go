package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"weeklybudget/internal/core"
)

// Expense ledger operations for the active week. Every mutation persists
// the full expense list and republishes the widget snapshot before
// returning; there is no batching.

// ListExpenses returns the active week's expenses in insertion order.
func (s *BudgetService) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	return s.loadExpenses(ctx)
}

// AddExpense appends a new expense dated now. Amounts must be positive;
// the description may be empty; tags are optional references.
func (s *BudgetService) AddExpense(ctx context.Context, amount core.Money, description string, tags []core.Tag) (core.Expense, error) {
	window, ok, err := s.CurrentWeek(ctx)
	if err != nil {
		return core.Expense{}, err
	}
	if !ok {
		return core.Expense{}, core.ErrNoActiveWeek
	}

	expense := core.NewExpense(amount, description, tags, s.now())
	if err := expense.Validate(); err != nil {
		return core.Expense{}, err
	}

	expenses, err := s.loadExpenses(ctx)
	if err != nil {
		return core.Expense{}, err
	}
	expenses = append(expenses, expense)
	if err := s.saveExpenses(ctx, expenses); err != nil {
		return core.Expense{}, err
	}
	s.publishSnapshot(ctx, window, expenses)

	slog.InfoContext(ctx, "Expense added",
		"expense_id", expense.ID,
		"amount_cents", expense.Amount.Cents)

	return expense, nil
}

// EditExpense replaces the amount and description of an existing expense.
// The id, the original date, and the tags are preserved.
func (s *BudgetService) EditExpense(ctx context.Context, id uuid.UUID, amount core.Money, description string) (core.Expense, error) {
	window, ok, err := s.CurrentWeek(ctx)
	if err != nil {
		return core.Expense{}, err
	}
	if !ok {
		return core.Expense{}, core.ErrNoActiveWeek
	}

	expenses, err := s.loadExpenses(ctx)
	if err != nil {
		return core.Expense{}, err
	}

	idx := -1
	for i, e := range expenses {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return core.Expense{}, core.ErrNotFound
	}

	updated := expenses[idx]
	updated.Amount = amount
	updated.Description = description
	if err := updated.Validate(); err != nil {
		return core.Expense{}, err
	}
	expenses[idx] = updated

	if err := s.saveExpenses(ctx, expenses); err != nil {
		return core.Expense{}, err
	}
	s.publishSnapshot(ctx, window, expenses)

	slog.InfoContext(ctx, "Expense edited",
		"expense_id", id,
		"amount_cents", amount.Cents)

	return updated, nil
}

// RemoveExpense deletes an expense from the active ledger.
func (s *BudgetService) RemoveExpense(ctx context.Context, id uuid.UUID) error {
	window, ok, err := s.CurrentWeek(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return core.ErrNoActiveWeek
	}

	expenses, err := s.loadExpenses(ctx)
	if err != nil {
		return err
	}

	idx := -1
	for i, e := range expenses {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return core.ErrNotFound
	}
	expenses = append(expenses[:idx], expenses[idx+1:]...)

	if err := s.saveExpenses(ctx, expenses); err != nil {
		return err
	}
	s.publishSnapshot(ctx, window, expenses)

	slog.InfoContext(ctx, "Expense removed", "expense_id", id)
	return nil
}

// TotalSpent sums the active ledger.
func (s *BudgetService) TotalSpent(ctx context.Context) (core.Money, error) {
	expenses, err := s.loadExpenses(ctx)
	if err != nil {
		return core.Money{}, err
	}
	return core.TotalSpent(expenses), nil
}

// TodaySpent sums the expenses dated on the same calendar day as now.
func (s *BudgetService) TodaySpent(ctx context.Context) (core.Money, error) {
	expenses, err := s.loadExpenses(ctx)
	if err != nil {
		return core.Money{}, err
	}
	return core.SpentOn(expenses, s.now(), s.cal.Location), nil
}

// ResolveTags maps tag ids onto the stored tag collection, silently
// skipping ids that no longer exist (tag deletion does not cascade).
func (s *BudgetService) ResolveTags(ctx context.Context, ids []uuid.UUID) ([]core.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tags, err := s.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve tags: %w", err)
	}
	byID := make(map[uuid.UUID]core.Tag, len(tags))
	for _, t := range tags {
		byID[t.ID] = t
	}
	var out []core.Tag
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}
