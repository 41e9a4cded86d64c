package core

import (
	"time"
)

// Calendar pins the week-boundary policy: which weekday and hour a budget
// week starts on, and the time zone all calendar math runs in. The ambient
// local zone is never consulted.
type Calendar struct {
	StartWeekday time.Weekday
	StartHour    int
	Location     *time.Location
}

// DefaultCalendar is the Monday 07:00 UTC policy.
func DefaultCalendar() Calendar {
	return Calendar{
		StartWeekday: time.Monday,
		StartHour:    7,
		Location:     time.UTC,
	}
}

// WeekBounds returns the window containing now: start is the configured
// weekday at the configured hour, end is start plus 6 days minus 1 second
// (Sunday 06:59:59 under the default policy). When now already sits at or
// past end, in the gap before the next window's start, the bounds advance
// a week so setup never produces an expired window.
func (c Calendar) WeekBounds(now time.Time) (start, end time.Time) {
	local := now.In(c.Location)
	daysIntoWeek := (int(local.Weekday()) - int(c.StartWeekday) + 7) % 7
	anchor := local.AddDate(0, 0, -daysIntoWeek)
	start = time.Date(anchor.Year(), anchor.Month(), anchor.Day(), c.StartHour, 0, 0, 0, c.Location)
	end = start.AddDate(0, 0, 6).Add(-time.Second)
	if !now.Before(end) {
		start = start.AddDate(0, 0, 7)
		end = start.AddDate(0, 0, 6).Add(-time.Second)
	}
	return start, end
}

// NewWeekWindow creates the active window for now with the given weekly
// budget. The daily allowance is computed once here, from the days left at
// creation time, and stays fixed for the window's lifetime.
func (c Calendar) NewWeekWindow(now time.Time, budget Money) WeekWindow {
	start, end := c.WeekBounds(now)
	ref := now
	if now.Before(start) {
		ref = start
	}
	days := c.RemainingDays(ref, end)
	return WeekWindow{
		StartDate:   start,
		EndDate:     end,
		Budget:      budget,
		DailyBudget: DailyBudget(budget, days),
	}
}

// RemainingDays counts the calendar days from now through weekEnd, both
// endpoints included. Never less than 1: the current day always counts,
// even on the window's last day, so the allowance division cannot divide
// by zero.
func (c Calendar) RemainingDays(now, weekEnd time.Time) int {
	// Anchor at noon so a DST shift inside the span cannot skew the count.
	from := c.noonOf(now)
	to := c.noonOf(weekEnd)
	days := int((to.Sub(from)+12*time.Hour)/(24*time.Hour)) + 1
	if days < 1 {
		return 1
	}
	return days
}

func (c Calendar) noonOf(t time.Time) time.Time {
	local := t.In(c.Location)
	return time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, c.Location)
}

// SameDay reports whether a and b fall on the same calendar day under this
// calendar's zone.
func (c Calendar) SameDay(a, b time.Time) bool {
	return sameDay(a, b, c.Location)
}

// DailyBudget is the fixed per-day cap: the remaining budget divided by the
// remaining days, floored to a whole currency unit. Flooring biases the
// displayed allowance down; the fractional remainder is absorbed, never
// redistributed.
func DailyBudget(remaining Money, days int) Money {
	if days < 1 {
		days = 1
	}
	const unit = 100 // cents per currency unit
	units := floorDiv(remaining.Cents, int64(days)*unit)
	return Money{Cents: units * unit}
}

// Contains reports whether now falls inside the window. Half-open: the
// instant exactly equal to EndDate belongs to the next window.
func (w WeekWindow) Contains(now time.Time) bool {
	return !now.Before(w.StartDate) && now.Before(w.EndDate)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
