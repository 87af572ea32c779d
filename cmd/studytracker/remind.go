package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studytracker/internal/activity"
	"github.com/at-ishikawa/studytracker/internal/bootstrap"
	"github.com/at-ishikawa/studytracker/internal/cli"
	"github.com/at-ishikawa/studytracker/internal/reminder"
)

func newRemindCommand() *cobra.Command {
	var once bool
	command := &cobra.Command{
		Use:   "remind",
		Short: "Send study reminders at the configured times",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = s.close() }()

			planner, err := reminder.NewPlanner(s.cfg.Reminder)
			if err != nil {
				return fmt.Errorf("reminder.NewPlanner() > %w", err)
			}
			notifier := newNotifier(s.cfg.Reminder.Notifier, cmd)
			scheduler := reminder.NewScheduler(planner, reloadStatistics(s.tracker), notifier,
				reminder.WithLocation(s.tracker.Location()),
			)

			return bootstrap.New().Run(cmd.Context(), func(ctx context.Context) error {
				return cli.RunReminders(ctx, cmd.OutOrStdout(), scheduler, once)
			})
		},
	}
	command.Flags().BoolVar(&once, "once", false, "check the current minute once and exit")
	return command
}

func newNotifier(name string, cmd *cobra.Command) reminder.Notifier {
	if name == "desktop" {
		return reminder.NewDesktopNotifier()
	}
	return reminder.NewConsoleNotifier(cmd.OutOrStdout())
}

// reloadStatistics reads the log again on each check, so sessions recorded by other processes are seen.
func reloadStatistics(tracker *activity.Tracker) reminder.StatisticsFunc {
	return func(ctx context.Context, now time.Time) (activity.Statistics, error) {
		result := tracker.Load(ctx)
		if result.Status == activity.LoadStatusReadFailed {
			return activity.Statistics{}, result.Err
		}
		slog.Debug("reloaded the activity log", slog.String("status", string(result.Status)))
		return tracker.ComputeStatistics(now), nil
	}
}

