// Package activity tracks daily study activity and derives streaks and heatmap data from it.
package activity

import "sort"

// DailyRecord is the study activity of a single calendar date.
// A record with zero CardsReviewed marks a day that was visited without studying.
type DailyRecord struct {
	CardsReviewed int `json:"cardsReviewed" yaml:"cards_reviewed"`
	SessionsCount int `json:"sessionsCount" yaml:"sessions_count"`
}

// Log maps each date to its record. There is at most one record per date.
type Log map[Date]DailyRecord

// SortedDates returns the dates of the log in ascending order.
func (l Log) SortedDates() []Date {
	dates := make([]Date, 0, len(l))
	for date := range l {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
	return dates
}

func (l Log) clone() Log {
	copied := make(Log, len(l))
	for date, record := range l {
		copied[date] = record
	}
	return copied
}
