// Package testutil provides shared test helpers for creating config files and activity fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupTestConfig creates a minimal config file with file storage and all required directories for testing.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	dirs := []string{"storage", "reports", "exports"}
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := fmt.Sprintf(`storage:
  backend: file
  directory: %s
sqlite:
  path: %s
activity:
  timezone: UTC
  week_start: sunday
reminder:
  times:
    - "09:00"
  daily_goal: 20
examples:
  cache_directory: %s
outputs:
  report_directory: %s
`,
		filepath.Join(tmpDir, "storage"),
		filepath.Join(tmpDir, "studytracker.db"),
		filepath.Join(tmpDir, "cache", "examples"),
		filepath.Join(tmpDir, "reports"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupTestConfigWithAPIKey creates a config file with a fake OpenAI API key for tests
// that require API key validation to pass.
func SetupTestConfigWithAPIKey(t *testing.T, tmpDir string) string {
	t.Helper()
	cfgPath := SetupTestConfig(t, tmpDir)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = append(content, []byte("openai:\n  api_key: fake-key-for-testing\n  model: gpt-4o-mini\n")...)
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}

// CreateActivityLog writes an activity payload where the file store of SetupTestConfig reads it.
func CreateActivityLog(t *testing.T, tmpDir string, key string, payload string) {
	t.Helper()

	storageDir := filepath.Join(tmpDir, "storage")
	require.NoError(t, os.MkdirAll(storageDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(storageDir, key+".json"), []byte(payload), 0644))
}
