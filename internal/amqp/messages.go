package amqp

import (
	"encoding/json"
	"time"

	"weeklybudget/internal/core"
)

// WidgetRefreshMessage tells the display surface that the shared store
// holds new snapshot numbers. The numbers ride along so a consumer without
// store access can still render.
type WidgetRefreshMessage struct {
	RemainingBudget      int64     `json:"remaining_budget_cents"`
	DailyAvailable       int64     `json:"daily_available_cents"`
	TodayRemainingBudget int64     `json:"today_remaining_budget_cents"`
	Timestamp            time.Time `json:"timestamp"`
}

func NewWidgetRefreshMessage(snap core.WidgetSnapshot) *WidgetRefreshMessage {
	return &WidgetRefreshMessage{
		RemainingBudget:      snap.RemainingBudget.Cents,
		DailyAvailable:       snap.DailyAvailable.Cents,
		TodayRemainingBudget: snap.TodayRemainingBudget.Cents,
		Timestamp:            time.Now(),
	}
}

func (m *WidgetRefreshMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func WidgetRefreshMessageFromJSON(data []byte) (*WidgetRefreshMessage, error) {
	var m WidgetRefreshMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Snapshot reconstructs the snapshot carried by the message.
func (m *WidgetRefreshMessage) Snapshot() core.WidgetSnapshot {
	return core.WidgetSnapshot{
		RemainingBudget:      core.Money{Cents: m.RemainingBudget},
		DailyAvailable:       core.Money{Cents: m.DailyAvailable},
		TodayRemainingBudget: core.Money{Cents: m.TodayRemainingBudget},
	}
}
