// Package datasync copies persisted activity between stores and exports it to YAML files.
package datasync

import (
	"context"
	"fmt"
	"io"

	"github.com/at-ishikawa/studytracker/internal/achievement"
	"github.com/at-ishikawa/studytracker/internal/activity"
	"github.com/at-ishikawa/studytracker/internal/storage"
)

// MigrateResult tracks counts for a migration.
type MigrateResult struct {
	Copied  int
	Skipped int
	Missing int
}

// MigrateOptions controls migration behavior.
type MigrateOptions struct {
	DryRun    bool
	Overwrite bool
}

type payloadKind struct {
	key      string
	validate func(payload string) error
}

// Migrator copies the activity log and the unlocked achievements of one storage key between stores.
type Migrator struct {
	source      storage.Store
	destination storage.Store
	payloads    []payloadKind
	writer      io.Writer
}

// NewMigrator creates a new Migrator.
func NewMigrator(source, destination storage.Store, activityKey string, writer io.Writer) *Migrator {
	return &Migrator{
		source:      source,
		destination: destination,
		payloads: []payloadKind{
			{key: activityKey, validate: validateActivity},
			{key: activityKey + achievement.KeySuffix, validate: validateAchievements},
		},
		writer: writer,
	}
}

func validateActivity(payload string) error {
	_, skipped, err := activity.Decode(payload)
	if err != nil {
		return err
	}
	if len(skipped) > 0 {
		return fmt.Errorf("%d invalid entries, first %s: %s", len(skipped), skipped[0].Key, skipped[0].Reason)
	}
	return nil
}

func validateAchievements(payload string) error {
	_, err := achievement.DecodeUnlocked(payload)
	return err
}

type sourcePayload struct {
	key     string
	payload string
	found   bool
}

// Migrate copies every payload that exists in the source.
// All payloads are read and validated first, so a failed validation leaves the destination untouched.
func (m *Migrator) Migrate(ctx context.Context, opts MigrateOptions) (*MigrateResult, error) {
	payloads := make([]sourcePayload, 0, len(m.payloads))
	for _, p := range m.payloads {
		payload, found, err := m.source.Get(ctx, p.key)
		if err != nil {
			return nil, fmt.Errorf("source.Get(%s) > %w", p.key, err)
		}
		if found {
			if err := p.validate(payload); err != nil {
				return nil, fmt.Errorf("validate(%s) > %w", p.key, err)
			}
		}
		payloads = append(payloads, sourcePayload{key: p.key, payload: payload, found: found})
	}

	var result MigrateResult
	for _, p := range payloads {
		if !p.found {
			fmt.Fprintf(m.writer, "  [MISSING]  %s\n", p.key)
			result.Missing++
			continue
		}

		_, exists, err := m.destination.Get(ctx, p.key)
		if err != nil {
			return nil, fmt.Errorf("destination.Get(%s) > %w", p.key, err)
		}
		if exists && !opts.Overwrite {
			fmt.Fprintf(m.writer, "  [SKIP]  %s already exists\n", p.key)
			result.Skipped++
			continue
		}

		if !opts.DryRun {
			if err := m.destination.Set(ctx, p.key, p.payload); err != nil {
				return nil, fmt.Errorf("destination.Set(%s) > %w", p.key, err)
			}
		}
		if exists {
			fmt.Fprintf(m.writer, "  [UPDATE]  %s\n", p.key)
		} else {
			fmt.Fprintf(m.writer, "  [NEW]  %s\n", p.key)
		}
		result.Copied++
	}
	return &result, nil
}
