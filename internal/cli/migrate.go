package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/at-ishikawa/studytracker/internal/datasync"
)

// RunMigration copies the stored activity with migrator and prints a summary.
func RunMigration(ctx context.Context, stdoutWriter io.Writer, migrator *datasync.Migrator, from, to string, opts datasync.MigrateOptions) error {
	header := fmt.Sprintf("Migrating from %s to %s", from, to)
	if opts.DryRun {
		header += " (dry run)"
	}
	if _, err := fmt.Fprintln(stdoutWriter, header); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}

	result, err := migrator.Migrate(ctx, opts)
	if err != nil {
		return fmt.Errorf("migrator.Migrate() > %w", err)
	}

	if _, err := fmt.Fprintf(stdoutWriter, "Copied: %d, Skipped: %d, Missing: %d\n", result.Copied, result.Skipped, result.Missing); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	return nil
}
