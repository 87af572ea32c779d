package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/at-ishikawa/studytracker/internal/activity"
)

// levelGlyphs stay distinguishable without colors
var levelGlyphs = [...]string{"·", "░", "▒", "▓", "█"}

const weekdayLabelWidth = 4

// Heatmap prints the activity of the given number of days ending on now, one column per week.
func (cli *ActivityCLI) Heatmap(now time.Time, days int) error {
	weeks := cli.tracker.RecentGrid(now, days)
	lines := renderHeatmap(weeks, cli.tracker.WeekStart())

	total := 0
	for _, week := range weeks {
		for _, cell := range week {
			if cell != nil {
				total += cell.CardsReviewed
			}
		}
	}
	lines = append(lines, fmt.Sprintf("%d cards in the last %d days", total, days))

	for _, line := range lines {
		if _, err := fmt.Fprintln(cli.stdoutWriter, line); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	}
	return nil
}

func renderHeatmap(weeks []activity.Week, weekStart time.Weekday) []string {
	lines := []string{monthHeader(weeks)}
	for column := 0; column < 7; column++ {
		day := time.Weekday((int(weekStart) + column) % 7)
		var b strings.Builder
		b.WriteString(fmt.Sprintf("%-*s", weekdayLabelWidth, day.String()[:3]))
		for _, week := range weeks {
			b.WriteString(renderCell(week[column]))
			b.WriteString(" ")
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}

	legend := []string{"Less"}
	for level := range levelGlyphs {
		legend = append(legend, levelColor(level).Sprint(levelGlyphs[level]))
	}
	legend = append(legend, "More")
	return append(lines, strings.Join(legend, " "))
}

// monthHeader places a month name above the first week in which it appears, unless it would overlap the previous name.
func monthHeader(weeks []activity.Week) string {
	header := []rune(strings.Repeat(" ", weekdayLabelWidth+len(weeks)*2))
	nextFree := 0
	for _, label := range activity.MonthLabels(weeks) {
		position := weekdayLabelWidth + label.WeekIndex*2
		name := label.Month.String()[:3]
		if position < nextFree || position+len(name) > len(header) {
			continue
		}
		copy(header[position:], []rune(name))
		nextFree = position + len(name) + 1
	}
	return strings.TrimRight(string(header), " ")
}

func renderCell(cell *activity.CalendarCell) string {
	if cell == nil {
		return " "
	}
	return levelColor(cell.ActivityLevel).Sprint(levelGlyphs[cell.ActivityLevel])
}

func levelColor(level int) *color.Color {
	switch {
	case level >= 3:
		return color.New(color.FgHiGreen)
	case level >= 1:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgHiBlack)
	}
}
