package cli

import (
	"fmt"

	"github.com/at-ishikawa/studytracker/internal/statistics"
)

// AnalyzeReport prints the activity of each period followed by the totals.
func (cli *ActivityCLI) AnalyzeReport(granularity statistics.Granularity, year, month int) error {
	result := statistics.CalculateStatistics(cli.tracker.Records(), granularity, year, month)

	w := cli.stdoutWriter
	if len(result.Periods) == 0 {
		if _, err := fmt.Fprintln(w, "No study records found for the specified period."); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
		return nil
	}

	if _, err := cli.bold.Fprintln(w, "Study Activity Report"); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	lines := []string{
		"=====================",
		"",
		fmt.Sprintf("%-10s  %-13s  %-8s  %-8s  %s", "Period", "Days (Active)", "Cards", "Sessions", "Best day"),
		fmt.Sprintf("%-10s  %-13s  %-8s  %-8s  %s", "------", "-------------", "-----", "--------", "--------"),
	}
	for _, s := range result.Periods {
		best := "-"
		if s.BestDayCards > 0 {
			best = fmt.Sprintf("%s (%d)", s.BestDay, s.BestDayCards)
		}
		lines = append(lines, fmt.Sprintf("%-10s  %-13s  %-8d  %-8d  %s",
			s.Period,
			fmt.Sprintf("%d / %d", s.StudyDays, s.ActiveDays),
			s.CardsReviewed,
			s.SessionsCount,
			best,
		))
	}
	lines = append(lines, "", fmt.Sprintf("%-10s  %-13s  %-8d  %-8d",
		"Totals:",
		fmt.Sprintf("%d / %d", result.Aggregate.StudyDays, result.Aggregate.ActiveDays),
		result.Aggregate.CardsReviewed,
		result.Aggregate.SessionsCount,
	))
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	}
	return nil
}
