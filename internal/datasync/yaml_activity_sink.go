package datasync

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/studytracker/internal/activity"
)

// ActivityRecord is one day of the exported activity log.
type ActivityRecord struct {
	Date          activity.Date `yaml:"date"`
	CardsReviewed int           `yaml:"cards_reviewed"`
	SessionsCount int           `yaml:"sessions_count"`
}

// YAMLActivitySink writes activity records to YAML files.
type YAMLActivitySink struct {
	outputDir string
}

// NewYAMLActivitySink creates a new YAMLActivitySink.
func NewYAMLActivitySink(outputDir string) *YAMLActivitySink {
	return &YAMLActivitySink{outputDir: outputDir}
}

// Path returns the file WriteAll writes to.
func (s *YAMLActivitySink) Path() string {
	return filepath.Join(s.outputDir, "activity.yml")
}

// WriteAll writes the log to activity.yml in ascending date order.
func (s *YAMLActivitySink) WriteAll(records activity.Log) error {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	rows := make([]ActivityRecord, 0, len(records))
	for _, date := range records.SortedDates() {
		record := records[date]
		rows = append(rows, ActivityRecord{
			Date:          date,
			CardsReviewed: record.CardsReviewed,
			SessionsCount: record.SessionsCount,
		})
	}
	if err := writeYAML(s.Path(), rows); err != nil {
		return fmt.Errorf("write activity.yml: %w", err)
	}
	return nil
}

func writeYAML(path string, data interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	enc := yaml.NewEncoder(f)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}
