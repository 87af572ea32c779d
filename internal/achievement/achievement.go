// Package achievement unlocks milestones from activity statistics.
package achievement

import (
	"github.com/at-ishikawa/studytracker/internal/activity"
)

// Metric is the statistic an achievement is measured against.
type Metric string

const (
	MetricTotalCards    Metric = "total_cards"
	MetricCurrentStreak Metric = "current_streak"
	MetricTotalDays     Metric = "total_days"
)

type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Target      int    `json:"target"`
	Metric      Metric `json:"metric"`
}

// Catalogue lists every achievement in display order.
var Catalogue = []Achievement{
	{ID: "first_review", Title: "First Steps", Description: "Complete your first review", Target: 1, Metric: MetricTotalCards},
	{ID: "streak_7", Title: "Week Warrior", Description: "7-day study streak", Target: 7, Metric: MetricCurrentStreak},
	{ID: "streak_30", Title: "Monthly Master", Description: "30-day study streak", Target: 30, Metric: MetricCurrentStreak},
	{ID: "cards_100", Title: "Century Club", Description: "Review 100 cards", Target: 100, Metric: MetricTotalCards},
	{ID: "cards_1000", Title: "Card Collector", Description: "Review 1000 cards", Target: 1000, Metric: MetricTotalCards},
	{ID: "days_30", Title: "Regular", Description: "Study on 30 different days", Target: 30, Metric: MetricTotalDays},
}

// Progress is the state of one achievement. Value is capped at the target.
type Progress struct {
	Achievement
	Value      int           `json:"progress"`
	Unlocked   bool          `json:"unlocked"`
	UnlockedOn activity.Date `json:"unlockedOn,omitzero"`
}

// Percent returns the progress towards the target between 0 and 100.
func (p Progress) Percent() int {
	if p.Target <= 0 {
		return 100
	}
	return p.Value * 100 / p.Target
}

func (m Metric) value(stats activity.Statistics) int {
	switch m {
	case MetricTotalCards:
		return stats.TotalCards
	case MetricCurrentStreak:
		return stats.CurrentStreak
	case MetricTotalDays:
		return stats.TotalDays
	default:
		return 0
	}
}

// Evaluate reports the progress of every achievement in the catalogue from stats alone.
func Evaluate(stats activity.Statistics) []Progress {
	result := make([]Progress, 0, len(Catalogue))
	for _, a := range Catalogue {
		value := min(a.Metric.value(stats), a.Target)
		result = append(result, Progress{
			Achievement: a,
			Value:       value,
			Unlocked:    value >= a.Target,
		})
	}
	return result
}
