package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/studytracker/internal/activity"
	"github.com/at-ishikawa/studytracker/internal/config"
)

func TestDateFlag(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    activity.Date
		wantErr bool
	}{
		{
			name:  "valid date",
			value: "2024-02-29",
			want:  activity.NewDate(2024, 2, 29),
		},
		{
			name:    "invalid date",
			value:   "2024-02-30",
			wantErr: true,
		},
		{
			name:    "not a date",
			value:   "today",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var flag dateFlag
			err := flag.Set(tt.value)
			if tt.wantErr {
				assert.ErrorContains(t, err, "expected YYYY-MM-DD")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, flag.date)
			assert.Equal(t, tt.value, flag.String())
		})
	}
}

func TestDateFlag_At(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	now := time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)

	var unset dateFlag
	assert.Equal(t, now, unset.at(now, tokyo))
	assert.Equal(t, "date", unset.Type())
	assert.Empty(t, unset.String())

	set := dateFlag{date: activity.NewDate(2024, 2, 10)}
	got := set.at(now, tokyo)
	assert.Equal(t, activity.NewDate(2024, 2, 10), activity.DateOf(got, tokyo))
}

func TestBackend_Set(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    Backend
		wantErr bool
	}{
		{name: "file", value: "file", want: "file"},
		{name: "sqlite", value: "sqlite", want: "sqlite"},
		{name: "redis", value: "redis", want: "redis"},
		{name: "invalid backend value", value: "postgres", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var backend Backend
			err := backend.Set(tt.value)
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid backend")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, backend)
			assert.Equal(t, tt.value, backend.String())
		})
	}
}

func TestBackend_Type(t *testing.T) {
	backend := Backend("file")
	assert.Equal(t, "backend", backend.Type())
}

func TestGeneratorOptions(t *testing.T) {
	assert.Empty(t, generatorOptions(&config.Config{}))
	assert.Len(t, generatorOptions(&config.Config{Examples: config.ExamplesConfig{CacheDirectory: t.TempDir()}}), 1)
}
