package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/studytracker/internal/testutil"
)

func TestNewAnalyzeCommand(t *testing.T) {
	cmd := newAnalyzeCommand()

	assert.Equal(t, "analyze", cmd.Use)
	assert.True(t, cmd.HasSubCommands())
}

func TestNewAnalyzeReportCommand(t *testing.T) {
	cmd := newAnalyzeReportCommand()

	assert.Equal(t, "report", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	for _, name := range []string{"year", "month", "yearly"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func TestAnalyzeReportCommand(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)
	testutil.CreateActivityLog(t, tmpDir, "anki_study_activity", `{
		"2024-02-26": {"cardsReviewed": 35, "sessionsCount": 2},
		"2024-03-01": {"cardsReviewed": 60, "sessionsCount": 3}
	}`)

	tests := []struct {
		name         string
		args         []string
		wantContains []string
		wantErr      string
	}{
		{
			name:         "monthly",
			args:         []string{"analyze", "report"},
			wantContains: []string{"Study Activity Report\n", "2024-03-01 (60)", "2024-02-26 (35)"},
		},
		{
			name:         "filtered by month",
			args:         []string{"analyze", "report", "--year", "2024", "--month", "2"},
			wantContains: []string{"2024-02-26 (35)"},
		},
		{
			name:         "yearly",
			args:         []string{"analyze", "report", "--yearly"},
			wantContains: []string{"2024        2 / 2"},
		},
		{
			name:         "no records",
			args:         []string{"analyze", "report", "--year", "2023"},
			wantContains: []string{"No study records found for the specified period.\n"},
		},
		{
			name:    "month without year",
			args:    []string{"analyze", "report", "--month", "3"},
			wantErr: "--month requires --year",
		},
		{
			name:    "invalid month",
			args:    []string{"analyze", "report", "--year", "2025", "--month", "13"},
			wantErr: "--month must be between 1 and 12",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runCommand(t, append([]string{"--config", cfgPath}, tt.args...)...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.wantContains {
				assert.Contains(t, got, want)
			}
		})
	}
}
