package activity

// Statistics is a snapshot of values derived from a Log for a given day.
type Statistics struct {
	Today              Date `json:"today"`
	CurrentStreak      int  `json:"currentStreak"`
	LongestStreak      int  `json:"longestStreak"`
	TotalDays          int  `json:"totalDays"`
	TotalCards         int  `json:"totalCards"`
	TotalSessions      int  `json:"totalSessions"`
	Last7DaysCards     int  `json:"last7DaysCards"`
	AverageCardsPerDay int  `json:"averageCardsPerDay"`
	TodayCards         int  `json:"todayCards"`
}

const recentWindowDays = 7

// ComputeStatistics derives statistics from log as seen on today.
// The result depends only on its arguments.
func ComputeStatistics(log Log, today Date) Statistics {
	stats := Statistics{
		Today:         today,
		CurrentStreak: currentStreak(log, today),
		LongestStreak: longestStreak(log),
		TotalDays:     len(log),
		TodayCards:    log[today].CardsReviewed,
	}
	for _, record := range log {
		stats.TotalCards += record.CardsReviewed
		stats.TotalSessions += record.SessionsCount
	}
	for i := 0; i < recentWindowDays; i++ {
		stats.Last7DaysCards += log[today.AddDays(-i)].CardsReviewed
	}
	if stats.TotalDays > 0 {
		// Half rounds up; both operands are non-negative.
		stats.AverageCardsPerDay = (2*stats.TotalCards + stats.TotalDays) / (2 * stats.TotalDays)
	}
	return stats
}

// currentStreak walks backward from today until the first date without a record.
func currentStreak(log Log, today Date) int {
	streak := 0
	for date := today; ; date = date.AddDays(-1) {
		if _, ok := log[date]; !ok {
			return streak
		}
		streak++
	}
}

// longestStreak returns the longest run of dates that are each one calendar day apart.
func longestStreak(log Log) int {
	longest := 0
	running := 0
	var previous Date
	for i, date := range log.SortedDates() {
		if i > 0 && previous.DaysUntil(date) == 1 {
			running++
		} else {
			running = 1
		}
		if running > longest {
			longest = running
		}
		previous = date
	}
	return longest
}

// ActivityLevel buckets a card count into a display intensity between 0 and 4.
func ActivityLevel(cards int) int {
	switch {
	case cards <= 0:
		return 0
	case cards < 10:
		return 1
	case cards < 30:
		return 2
	case cards < 50:
		return 3
	default:
		return 4
	}
}
