package statistics

import (
	"fmt"
	"sort"

	"github.com/at-ishikawa/studytracker/internal/activity"
)

// PeriodStatistics holds statistics for a time period
type PeriodStatistics struct {
	Period        string // "2025-01" for monthly, "2025" for yearly
	ActiveDays    int    // Days with a record, including visits
	StudyDays     int    // Days with at least one reviewed card
	CardsReviewed int
	SessionsCount int
	BestDay       activity.Date
	BestDayCards  int
}

// AggregateStatistics holds totals across all matched periods
type AggregateStatistics struct {
	ActiveDays    int
	StudyDays     int
	CardsReviewed int
	SessionsCount int
}

// StatisticsResult holds both per-period and aggregate statistics
type StatisticsResult struct {
	Periods   []PeriodStatistics
	Aggregate AggregateStatistics
}

// Granularity decides how dates are grouped into periods.
type Granularity int

const (
	Monthly Granularity = iota
	Yearly
)

// CalculateStatistics groups the activity log into periods.
// It accepts optional year and month filters (0 means no filter).
// Periods are sorted newest first.
func CalculateStatistics(log activity.Log, granularity Granularity, year, month int) StatisticsResult {
	stats := make(map[string]*PeriodStatistics)

	for _, date := range log.SortedDates() {
		if !matchesFilter(date.Year, int(date.Month), year, month) {
			continue
		}
		period := periodOf(date, granularity)
		if stats[period] == nil {
			stats[period] = &PeriodStatistics{Period: period}
		}

		record := log[date]
		s := stats[period]
		s.ActiveDays++
		if record.CardsReviewed > 0 {
			s.StudyDays++
		}
		s.CardsReviewed += record.CardsReviewed
		s.SessionsCount += record.SessionsCount
		// Dates are ascending, so ties keep the earliest day
		if record.CardsReviewed > s.BestDayCards {
			s.BestDay = date
			s.BestDayCards = record.CardsReviewed
		}
	}

	return buildResult(stats)
}

func periodOf(date activity.Date, granularity Granularity) string {
	if granularity == Yearly {
		return fmt.Sprintf("%04d", date.Year)
	}
	return fmt.Sprintf("%04d-%02d", date.Year, int(date.Month))
}

func matchesFilter(logYear, logMonth, filterYear, filterMonth int) bool {
	if filterYear == 0 {
		return true
	}
	if logYear != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return logMonth == filterMonth
}

func buildResult(stats map[string]*PeriodStatistics) StatisticsResult {
	periods := make([]PeriodStatistics, 0, len(stats))

	var aggregate AggregateStatistics
	for _, data := range stats {
		periods = append(periods, *data)
		aggregate.ActiveDays += data.ActiveDays
		aggregate.StudyDays += data.StudyDays
		aggregate.CardsReviewed += data.CardsReviewed
		aggregate.SessionsCount += data.SessionsCount
	}

	// Sort by period descending (newest first)
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Period > periods[j].Period
	})

	return StatisticsResult{
		Periods:   periods,
		Aggregate: aggregate,
	}
}
