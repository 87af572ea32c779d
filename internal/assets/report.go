package assets

import (
	_ "embed"
	"fmt"
	"io"
	"time"
)

const reportTemplateName = "activity-report.md.go.tmpl"

//go:embed templates/activity-report.md.go.tmpl
var fallbackReportTemplate string

// ReportTemplate is the top-level data structure for activity report templates
type ReportTemplate struct {
	GeneratedAt  time.Time
	Summary      ReportSummary
	Achievements []ReportAchievement
	Months       []ReportMonth
	RecentDays   []ReportDay
}

type ReportSummary struct {
	Today              string
	CurrentStreak      int
	LongestStreak      int
	TotalDays          int
	TotalCards         int
	TotalSessions      int
	Last7DaysCards     int
	AverageCardsPerDay int
}

type ReportAchievement struct {
	Title       string
	Description string
	Progress    int
	Target      int
	Unlocked    bool
	UnlockedOn  string
}

// ReportMonth aggregates the records of one calendar month
type ReportMonth struct {
	Month    string
	Days     int
	Cards    int
	Sessions int
}

type ReportDay struct {
	Date     string
	Weekday  string
	Cards    int
	Sessions int
	Level    int
}

func WriteActivityReport(output io.Writer, templatePath string, templateData ReportTemplate) error {
	tmpl, err := parseTemplateWithFallback(templatePath, reportTemplateName, fallbackReportTemplate)
	if err != nil {
		return fmt.Errorf("parseTemplateWithFallback() > %w", err)
	}
	if err := tmpl.Execute(output, templateData); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
