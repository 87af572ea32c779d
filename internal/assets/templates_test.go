package assets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplateWithFallback(t *testing.T) {
	tests := []struct {
		name         string
		templatePath func(t *testing.T) string

		wantTemplateName     string
		wantTemplateContents string
	}{
		{
			name: "uses filesystem template when available",
			templatePath: func(t *testing.T) string {
				templatePath := filepath.Join(t.TempDir(), "custom.md.go.tmpl")
				require.NoError(t, os.WriteFile(templatePath, []byte(`Filesystem: {{ join .Words ", " }}`), 0644))
				return templatePath
			},
			wantTemplateName:     "custom.md.go.tmpl",
			wantTemplateContents: "Filesystem: a, b",
		},
		{
			name: "uses embedded template when file doesn't exist",
			templatePath: func(t *testing.T) string {
				return "/non/existent/invalid.md.go.tmpl"
			},
			wantTemplateName:     "fallback.md.go.tmpl",
			wantTemplateContents: "Fallback: a b",
		},
		{
			name: "uses embedded template when no path is configured",
			templatePath: func(t *testing.T) string {
				return ""
			},
			wantTemplateName:     "fallback.md.go.tmpl",
			wantTemplateContents: "Fallback: a b",
		},
		{
			name: "uses embedded template when the file cannot be parsed",
			templatePath: func(t *testing.T) string {
				templatePath := filepath.Join(t.TempDir(), "broken.md.go.tmpl")
				require.NoError(t, os.WriteFile(templatePath, []byte(`{{ .Words `), 0644))
				return templatePath
			},
			wantTemplateName:     "fallback.md.go.tmpl",
			wantTemplateContents: "Fallback: a b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := parseTemplateWithFallback(tt.templatePath(t), "fallback.md.go.tmpl", `Fallback: {{ join .Words " " }}`)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTemplateName, tmpl.Name())

			var buf bytes.Buffer
			require.NoError(t, tmpl.Execute(&buf, struct{ Words []string }{Words: []string{"a", "b"}}))
			assert.Equal(t, tt.wantTemplateContents, buf.String())
		})
	}
}

func TestWriteActivityReport(t *testing.T) {
	data := ReportTemplate{
		GeneratedAt: time.Date(2024, 3, 10, 21, 30, 0, 0, time.UTC),
		Summary: ReportSummary{
			Today:              "2024-03-10",
			CurrentStreak:      3,
			LongestStreak:      5,
			TotalDays:          8,
			TotalCards:         120,
			TotalSessions:      11,
			Last7DaysCards:     45,
			AverageCardsPerDay: 15,
		},
		Achievements: []ReportAchievement{
			{Title: "First Steps", Description: "Complete your first review", Progress: 1, Target: 1, Unlocked: true, UnlockedOn: "2024-03-01"},
			{Title: "Week Warrior", Description: "7-day study streak", Progress: 3, Target: 7},
		},
		Months: []ReportMonth{
			{Month: "2024-03", Days: 8, Cards: 120, Sessions: 11},
		},
		RecentDays: []ReportDay{
			{Date: "2024-03-10", Weekday: "Sun", Cards: 35, Sessions: 2, Level: 3},
			{Date: "2024-03-09", Weekday: "Sat", Cards: 0, Sessions: 0, Level: 0},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteActivityReport(&buf, "", data))
	got := buf.String()

	assert.Contains(t, got, "# Study Activity Report")
	assert.Contains(t, got, "Generated on 2024-03-10 21:30")
	assert.Contains(t, got, "| Current streak | 3 days |")
	assert.Contains(t, got, "| Average cards per day | 15 |")
	assert.Contains(t, got, "- [x] **First Steps**: Complete your first review (1/1), unlocked on 2024-03-01")
	assert.Contains(t, got, "- [ ] **Week Warrior**: 7-day study streak (3/7)\n")
	assert.Contains(t, got, "| 2024-03 | 8 | 120 | 11 |")
	assert.Contains(t, got, "| 2024-03-10 | Sun | 35 | 2 | ### |")
	assert.Contains(t, got, "| 2024-03-09 | Sat | 0 | 0 |  |")
}

func TestWriteActivityReport_EmptySections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteActivityReport(&buf, "", ReportTemplate{
		GeneratedAt: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}))

	got := buf.String()
	assert.Contains(t, got, "| Days studied | 0 |")
	assert.NotContains(t, got, "## Achievements")
	assert.NotContains(t, got, "## Monthly activity")
	assert.NotContains(t, got, "## Recent days")
}
