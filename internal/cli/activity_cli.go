// Package cli implements the terminal output of the studytracker commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"

	"github.com/at-ishikawa/studytracker/internal/achievement"
	"github.com/at-ishikawa/studytracker/internal/activity"
)

// ActivityCLI prints the activity of a loaded tracker
type ActivityCLI struct {
	tracker      *activity.Tracker
	book         *achievement.Book
	stdoutWriter io.Writer
	logger       *slog.Logger
	bold         *color.Color
	green        *color.Color
	yellow       *color.Color
	red          *color.Color
}

func NewActivityCLI(tracker *activity.Tracker, book *achievement.Book, stdoutWriter io.Writer) *ActivityCLI {
	return &ActivityCLI{
		tracker:      tracker,
		book:         book,
		stdoutWriter: stdoutWriter,
		logger:       slog.Default(),
		bold:         color.New(color.Bold),
		green:        color.New(color.FgGreen),
		yellow:       color.New(color.FgYellow),
		red:          color.New(color.FgRed),
	}
}

// Record adds a study session on the date of at and reports the day's totals.
func (cli *ActivityCLI) Record(ctx context.Context, cards int, at time.Time) error {
	if err := cli.tracker.RecordSession(ctx, cards, at); err != nil {
		return fmt.Errorf("tracker.RecordSession() > %w", err)
	}

	date := cli.tracker.Today(at)
	record := cli.tracker.Records()[date]
	if _, err := fmt.Fprintf(cli.stdoutWriter, "Recorded %s on %s (%s in %s that day)\n",
		pluralize(cards, "card"), date, pluralize(record.CardsReviewed, "card"), pluralize(record.SessionsCount, "session")); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	if err := cli.warnPersistError(); err != nil {
		return err
	}
	return cli.announceAchievements(ctx, at)
}

// Visit marks the date of at as visited.
func (cli *ActivityCLI) Visit(ctx context.Context, at time.Time) error {
	date := cli.tracker.Today(at)
	message := fmt.Sprintf("%s was already recorded\n", date)
	if cli.tracker.MarkVisited(ctx, at) {
		message = fmt.Sprintf("Marked %s as visited\n", date)
	}
	if _, err := fmt.Fprint(cli.stdoutWriter, message); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	if err := cli.warnPersistError(); err != nil {
		return err
	}
	return cli.announceAchievements(ctx, at)
}

func (cli *ActivityCLI) warnPersistError() error {
	persistErr := cli.tracker.PersistError()
	if persistErr == nil {
		return nil
	}
	if _, err := cli.red.Fprintf(cli.stdoutWriter, "Warning: the activity could not be saved: %v\n", persistErr); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	return nil
}

func (cli *ActivityCLI) announceAchievements(ctx context.Context, at time.Time) error {
	if cli.book == nil {
		return nil
	}
	stats := cli.tracker.ComputeStatistics(at)
	_, unlocked, err := cli.book.Check(ctx, stats, stats.Today)
	if err != nil {
		cli.logger.Warn("failed to check achievements", slog.Any("error", err))
		return nil
	}
	for _, a := range unlocked {
		if _, err := cli.yellow.Fprintf(cli.stdoutWriter, "🏆 Achievement unlocked: %s - %s\n", a.Title, a.Description); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	}
	return nil
}

// Stats prints the statistics as of now.
func (cli *ActivityCLI) Stats(now time.Time) error {
	stats := cli.tracker.ComputeStatistics(now)

	w := cli.stdoutWriter
	if _, err := cli.bold.Fprintf(w, "Study statistics (%s)\n", stats.Today); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	rows := []struct {
		label string
		value string
	}{
		{"Current streak", pluralize(stats.CurrentStreak, "day")},
		{"Longest streak", pluralize(stats.LongestStreak, "day")},
		{"Days studied", fmt.Sprint(stats.TotalDays)},
		{"Total cards", fmt.Sprint(stats.TotalCards)},
		{"Total sessions", fmt.Sprint(stats.TotalSessions)},
		{"Last 7 days", pluralize(stats.Last7DaysCards, "card")},
		{"Average per day", pluralize(stats.AverageCardsPerDay, "card")},
		{"Today", pluralize(stats.TodayCards, "card")},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "  %-16s %s\n", row.label+":", row.value); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	}
	return nil
}

// Achievements prints the progress of every achievement, unlocking the ones that reached their target.
func (cli *ActivityCLI) Achievements(ctx context.Context, now time.Time) error {
	stats := cli.tracker.ComputeStatistics(now)
	progress, _, err := cli.book.Check(ctx, stats, stats.Today)
	if err != nil {
		return fmt.Errorf("book.Check() > %w", err)
	}

	unlocked := 0
	for _, p := range progress {
		if p.Unlocked {
			unlocked++
		}
	}

	w := cli.stdoutWriter
	if _, err := cli.bold.Fprintf(w, "Achievements (%d/%d unlocked)\n", unlocked, len(progress)); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	for _, p := range progress {
		if p.Unlocked {
			if _, err := fmt.Fprintf(w, "  ✅ %s - %s (unlocked on %s)\n", cli.green.Sprint(p.Title), p.Description, p.UnlockedOn); err != nil {
				return fmt.Errorf("failed to write to stdout: %w", err)
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "  ⬜ %s - %s [%d/%d] %d%%\n", p.Title, p.Description, p.Value, p.Target, p.Percent()); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	}
	return nil
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
