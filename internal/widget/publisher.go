// Package widget pushes the three-number snapshot the home-screen display
// surface renders: remaining weekly budget, the fixed daily allowance, and
// what is left of today's allowance.
package widget

import (
	"context"
	"log/slog"

	"weeklybudget/internal/core"
	"weeklybudget/internal/store"
)

// Notifier asks the external display surface to invalidate its cached
// render. Satisfied by *amqp.Client; nil means no surface is listening.
type Notifier interface {
	PublishWidgetRefresh(ctx context.Context, snap core.WidgetSnapshot) error
}

type Publisher struct {
	store    store.Store
	notifier Notifier
}

func NewPublisher(s store.Store, n Notifier) *Publisher {
	return &Publisher{store: s, notifier: n}
}

// Publish overwrites the three scalar keys and notifies the display
// surface. Best-effort throughout: each key is independent and last-write-
// wins, so a failed write is logged and absorbed rather than surfaced.
func (p *Publisher) Publish(ctx context.Context, snap core.WidgetSnapshot) {
	p.setScalar(ctx, store.KeyRemainingBudget, snap.RemainingBudget.Cents)
	p.setScalar(ctx, store.KeyDailyAvailable, snap.DailyAvailable.Cents)
	p.setScalar(ctx, store.KeyTodayRemaining, snap.TodayRemainingBudget.Cents)

	if p.notifier == nil {
		return
	}
	if err := p.notifier.PublishWidgetRefresh(ctx, snap); err != nil {
		slog.WarnContext(ctx, "Widget refresh notification failed", "error", err)
	}
}

// Zero blanks the snapshot, used when a week rolls over and no new budget
// exists yet.
func (p *Publisher) Zero(ctx context.Context) {
	p.Publish(ctx, core.WidgetSnapshot{})
}

// Read returns the stored snapshot. Absent or malformed scalars read as
// zero; read failures degrade the same way.
func (p *Publisher) Read(ctx context.Context) core.WidgetSnapshot {
	return core.WidgetSnapshot{
		RemainingBudget:      core.Money{Cents: p.getScalar(ctx, store.KeyRemainingBudget)},
		DailyAvailable:       core.Money{Cents: p.getScalar(ctx, store.KeyDailyAvailable)},
		TodayRemainingBudget: core.Money{Cents: p.getScalar(ctx, store.KeyTodayRemaining)},
	}
}

func (p *Publisher) setScalar(ctx context.Context, key string, cents int64) {
	if err := store.SetCents(ctx, p.store, key, cents); err != nil {
		slog.WarnContext(ctx, "Widget snapshot write failed", "key", key, "error", err)
	}
}

func (p *Publisher) getScalar(ctx context.Context, key string) int64 {
	n, err := store.GetCents(ctx, p.store, key)
	if err != nil {
		slog.WarnContext(ctx, "Widget snapshot read failed", "key", key, "error", err)
		return 0
	}
	return n
}
