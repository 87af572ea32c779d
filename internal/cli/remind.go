package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/at-ishikawa/studytracker/internal/reminder"
)

// RunReminders runs the scheduler until ctx is cancelled. With once, it checks the current minute and returns.
func RunReminders(ctx context.Context, stdoutWriter io.Writer, scheduler *reminder.Scheduler, once bool) error {
	if !once {
		if _, err := fmt.Fprintln(stdoutWriter, "Reminders are running. Press Ctrl+C to stop."); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
		return scheduler.Run(ctx)
	}

	sent, err := scheduler.Check(ctx)
	if err != nil {
		return fmt.Errorf("scheduler.Check() > %w", err)
	}
	if !sent {
		if _, err := fmt.Fprintln(stdoutWriter, "No reminder is due now"); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	}
	return nil
}
