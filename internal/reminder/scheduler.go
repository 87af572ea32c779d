package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/at-ishikawa/studytracker/internal/activity"
)

// StatisticsFunc returns the activity statistics as of now.
type StatisticsFunc func(ctx context.Context, now time.Time) (activity.Statistics, error)

type Scheduler struct {
	planner    *Planner
	statistics StatisticsFunc
	notifier   Notifier
	now        func() time.Time
	location   *time.Location
	interval   time.Duration
	logger     *slog.Logger
}

type SchedulerOption func(*Scheduler)

func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		s.now = now
	}
}

// WithLocation sets the time zone in which reminder times are interpreted.
func WithLocation(loc *time.Location) SchedulerOption {
	return func(s *Scheduler) {
		s.location = loc
	}
}

func WithInterval(interval time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.interval = interval
	}
}

func WithLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

func NewScheduler(planner *Planner, statistics StatisticsFunc, notifier Notifier, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		planner:    planner,
		statistics: statistics,
		notifier:   notifier,
		now:        time.Now,
		location:   time.Local,
		interval:   time.Minute,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check sends the notification due now, if any, and reports whether one was sent.
func (s *Scheduler) Check(ctx context.Context) (bool, error) {
	now := s.now().In(s.location)
	stats, err := s.statistics(ctx, now)
	if err != nil {
		return false, fmt.Errorf("load statistics: %w", err)
	}

	notification, ok := s.planner.Decide(now, stats)
	if !ok {
		return false, nil
	}
	if err := s.notifier.Notify(ctx, notification); err != nil {
		return false, fmt.Errorf("send %s notification: %w", notification.Kind, err)
	}
	s.logger.Info("sent a study notification",
		slog.String("kind", string(notification.Kind)),
		slog.String("time", now.Format(clockLayout)),
	)
	return true, nil
}

// Run checks for due notifications on every interval until ctx is done.
// Failures are logged and do not stop the scheduler.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.Check(ctx); err != nil {
			s.logger.Error("failed to send a study reminder", slog.Any("error", err))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
