package activity

import "time"

// CalendarCell is one in-range day of a calendar grid.
type CalendarCell struct {
	Date          Date `json:"date"`
	CardsReviewed int  `json:"cardsReviewed"`
	ActivityLevel int  `json:"activityLevel"`
	SessionsCount int  `json:"sessionsCount"`
}

// Week is a row of the calendar grid. Its first column is the grid's week start;
// nil cells are placeholders for days outside the requested range.
type Week [7]*CalendarCell

// BuildCalendarGrid lays the days from start to end inclusive out in weeks beginning on weekStart.
// The log is only read, so identical inputs always produce identical grids.
func BuildCalendarGrid(log Log, start, end Date, weekStart time.Weekday) []Week {
	if end.Before(start) {
		return nil
	}

	var weeks []Week
	var week Week
	column := columnOf(start.Weekday(), weekStart)
	for date := start; !date.After(end); date = date.AddDays(1) {
		record := log[date]
		week[column] = &CalendarCell{
			Date:          date,
			CardsReviewed: record.CardsReviewed,
			ActivityLevel: ActivityLevel(record.CardsReviewed),
			SessionsCount: record.SessionsCount,
		}
		column++
		if column == len(week) {
			weeks = append(weeks, week)
			week = Week{}
			column = 0
		}
	}
	if column > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

func columnOf(day, weekStart time.Weekday) int {
	return (int(day) - int(weekStart) + 7) % 7
}

// MonthLabel marks the first week in which a month appears in a grid.
type MonthLabel struct {
	WeekIndex int
	Month     time.Month
}

// MonthLabels returns a label for the first week of the grid and for every week where a new month starts.
func MonthLabels(weeks []Week) []MonthLabel {
	var labels []MonthLabel
	for i, week := range weeks {
		for _, cell := range week {
			if cell == nil {
				continue
			}
			if len(labels) == 0 || cell.Date.Day == 1 {
				labels = append(labels, MonthLabel{WeekIndex: i, Month: cell.Date.Month})
			}
		}
	}
	return labels
}
