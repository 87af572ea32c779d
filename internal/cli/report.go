package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/at-ishikawa/studytracker/internal/activity"
	"github.com/at-ishikawa/studytracker/internal/assets"
	"github.com/at-ishikawa/studytracker/internal/datasync"
	"github.com/at-ishikawa/studytracker/internal/pdf"
	"github.com/at-ishikawa/studytracker/internal/statistics"
)

const reportRecentDays = 14

// ExportYAML writes the activity log with the sink.
func (cli *ActivityCLI) ExportYAML(sink *datasync.YAMLActivitySink) error {
	records := cli.tracker.Records()
	if err := sink.WriteAll(records); err != nil {
		return fmt.Errorf("sink.WriteAll() > %w", err)
	}
	if _, err := fmt.Fprintf(cli.stdoutWriter, "Exported %d days to %s\n", len(records), sink.Path()); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	return nil
}

// ExportReport renders a Markdown report into outputDir, and converts it to PDF when withPDF is set.
// It returns the path of the last written file.
func (cli *ActivityCLI) ExportReport(ctx context.Context, now time.Time, outputDir, templatePath string, withPDF bool) (string, error) {
	data, err := cli.reportTemplate(ctx, now)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", outputDir, err)
	}
	markdownPath := filepath.Join(outputDir, fmt.Sprintf("activity-report-%s.md", data.Summary.Today))
	output, err := os.Create(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.Create(%s) > %w", markdownPath, err)
	}
	if err := assets.WriteActivityReport(output, templatePath, data); err != nil {
		_ = output.Close()
		return "", fmt.Errorf("assets.WriteActivityReport() > %w", err)
	}
	if err := output.Close(); err != nil {
		return "", fmt.Errorf("output.Close() > %w", err)
	}
	if _, err := fmt.Fprintf(cli.stdoutWriter, "Report written to %s\n", markdownPath); err != nil {
		return "", fmt.Errorf("failed to write to stdout: %w", err)
	}
	if !withPDF {
		return markdownPath, nil
	}

	pdfPath, err := pdf.ConvertMarkdownToPDF(markdownPath)
	if err != nil {
		return "", fmt.Errorf("pdf.ConvertMarkdownToPDF() > %w", err)
	}
	if _, err := fmt.Fprintf(cli.stdoutWriter, "PDF written to %s\n", pdfPath); err != nil {
		return "", fmt.Errorf("failed to write to stdout: %w", err)
	}
	return pdfPath, nil
}

func (cli *ActivityCLI) reportTemplate(ctx context.Context, now time.Time) (assets.ReportTemplate, error) {
	stats := cli.tracker.ComputeStatistics(now)
	records := cli.tracker.Records()

	data := assets.ReportTemplate{
		GeneratedAt: now,
		Summary: assets.ReportSummary{
			Today:              stats.Today.String(),
			CurrentStreak:      stats.CurrentStreak,
			LongestStreak:      stats.LongestStreak,
			TotalDays:          stats.TotalDays,
			TotalCards:         stats.TotalCards,
			TotalSessions:      stats.TotalSessions,
			Last7DaysCards:     stats.Last7DaysCards,
			AverageCardsPerDay: stats.AverageCardsPerDay,
		},
		Months: monthlySummaries(records),
	}

	if cli.book != nil {
		progress, _, err := cli.book.Check(ctx, stats, stats.Today)
		if err != nil {
			return assets.ReportTemplate{}, fmt.Errorf("book.Check() > %w", err)
		}
		for _, p := range progress {
			item := assets.ReportAchievement{
				Title:       p.Title,
				Description: p.Description,
				Progress:    p.Value,
				Target:      p.Target,
				Unlocked:    p.Unlocked,
			}
			if !p.UnlockedOn.IsZero() {
				item.UnlockedOn = p.UnlockedOn.String()
			}
			data.Achievements = append(data.Achievements, item)
		}
	}

	for i := 0; i < reportRecentDays; i++ {
		date := stats.Today.AddDays(-i)
		record := records[date]
		data.RecentDays = append(data.RecentDays, assets.ReportDay{
			Date:     date.String(),
			Weekday:  date.Weekday().String()[:3],
			Cards:    record.CardsReviewed,
			Sessions: record.SessionsCount,
			Level:    activity.ActivityLevel(record.CardsReviewed),
		})
	}
	return data, nil
}

// monthlySummaries aggregates the log by month, newest first.
func monthlySummaries(records activity.Log) []assets.ReportMonth {
	result := statistics.CalculateStatistics(records, statistics.Monthly, 0, 0)
	months := make([]assets.ReportMonth, 0, len(result.Periods))
	for _, period := range result.Periods {
		months = append(months, assets.ReportMonth{
			Month:    period.Period,
			Days:     period.ActiveDays,
			Cards:    period.CardsReviewed,
			Sessions: period.SessionsCount,
		})
	}
	return months
}
