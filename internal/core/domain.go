package core

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type (
	Money struct {
		Cents int64 `json:"cents"`
	}

	// WeekWindow is the active budgeting period. DailyBudget is fixed at
	// creation time and never recomputed as expenses accrue.
	WeekWindow struct {
		StartDate   time.Time `json:"startDate"`
		EndDate     time.Time `json:"endDate"`
		Budget      Money     `json:"budget"`
		DailyBudget Money     `json:"dailyBudget"`
	}

	Tag struct {
		ID   uuid.UUID `json:"id"`
		Name string    `json:"name"`
	}

	Expense struct {
		ID          uuid.UUID `json:"id"`
		Amount      Money     `json:"amount"`
		Description string    `json:"description"`
		Date        time.Time `json:"date"`
		Tags        []Tag     `json:"tags,omitempty"`
	}

	// WeekHistoryEntry is an archived week. Immutable once created;
	// TotalSpent is snapshotted at archive time.
	WeekHistoryEntry struct {
		ID         uuid.UUID  `json:"id"`
		WeekWindow WeekWindow `json:"weekWindow"`
		Expenses   []Expense  `json:"expenses"`
		TotalSpent Money      `json:"totalSpent"`
		StartDate  time.Time  `json:"startDate"`
		EndDate    time.Time  `json:"endDate"`
	}

	// WidgetSnapshot holds the three numbers the display surface renders.
	WidgetSnapshot struct {
		RemainingBudget      Money `json:"remainingBudget"`
		DailyAvailable       Money `json:"dailyAvailable"`
		TodayRemainingBudget Money `json:"todayRemainingBudget"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidBudget = errors.New("invalid budget")
	ErrNotFound      = errors.New("not found")
	ErrNoActiveWeek  = errors.New("no active week")
	ErrEmptyTagName  = errors.New("empty tag name")
)

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Sub returns m minus other. Results may go negative (overspent budgets).
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

func (w WeekWindow) Validate() error {
	if w.StartDate.IsZero() || w.EndDate.IsZero() {
		return errors.New("week window dates cannot be zero")
	}
	if !w.StartDate.Before(w.EndDate) {
		return errors.New("week window start must precede end")
	}
	if w.Budget.Cents < 0 {
		return ErrInvalidBudget
	}
	return nil
}

// IsZero reports whether the window carries no data, which is how an
// absent or undecodable stored window presents itself.
func (w WeekWindow) IsZero() bool {
	return w.StartDate.IsZero() && w.EndDate.IsZero()
}

func (e Expense) Validate() error {
	if e.ID == uuid.Nil {
		return errors.New("expense id cannot be nil")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	// Empty descriptions are allowed.
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (t Tag) Validate() error {
	if t.ID == uuid.Nil {
		return errors.New("tag id cannot be nil")
	}
	if t.Name == "" {
		return ErrEmptyTagName
	}
	return nil
}

// NewExpense builds an expense with a fresh identity. Tags are referenced,
// not owned; the slice is copied so later tag edits don't alias.
func NewExpense(amount Money, description string, tags []Tag, at time.Time) Expense {
	return Expense{
		ID:          uuid.New(),
		Amount:      amount,
		Description: description,
		Date:        at,
		Tags:        append([]Tag(nil), tags...),
	}
}

// NewWeekHistoryEntry archives a finished window with its expenses.
// TotalSpent and the date pair are copied out so the entry stands alone.
func NewWeekHistoryEntry(window WeekWindow, expenses []Expense) WeekHistoryEntry {
	return WeekHistoryEntry{
		ID:         uuid.New(),
		WeekWindow: window,
		Expenses:   append([]Expense(nil), expenses...),
		TotalSpent: TotalSpent(expenses),
		StartDate:  window.StartDate,
		EndDate:    window.EndDate,
	}
}

// TotalSpent sums all expense amounts.
func TotalSpent(expenses []Expense) Money {
	var total Money
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// SpentOn sums the expenses whose date falls on the same calendar day as
// day, evaluated in loc.
func SpentOn(expenses []Expense, day time.Time, loc *time.Location) Money {
	var total Money
	for _, e := range expenses {
		if sameDay(e.Date, day, loc) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
