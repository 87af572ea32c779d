package reminder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/studytracker/internal/activity"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type recordingNotifier struct {
	mu            sync.Mutex
	notifications []Notification
	err           error
}

func (n *recordingNotifier) Notify(_ context.Context, notification Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.notifications = append(n.notifications, notification)
	return nil
}

func (n *recordingNotifier) sent() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.notifications...)
}

func fixedStatistics(stats activity.Statistics) StatisticsFunc {
	return func(context.Context, time.Time) (activity.Statistics, error) {
		return stats, nil
	}
}

func TestScheduler_Check(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		statistics StatisticsFunc
		notifyErr  error
		wantSent   bool
		wantErr    string
	}{
		{
			name:       "due reminder is sent",
			now:        clock(9, 0),
			statistics: fixedStatistics(activity.Statistics{TodayCards: 1}),
			wantSent:   true,
		},
		{
			name:       "nothing due",
			now:        clock(10, 0),
			statistics: fixedStatistics(activity.Statistics{TodayCards: 1}),
			wantSent:   false,
		},
		{
			name: "statistics failure",
			now:  clock(9, 0),
			statistics: func(context.Context, time.Time) (activity.Statistics, error) {
				return activity.Statistics{}, errors.New("store unavailable")
			},
			wantErr: "load statistics: store unavailable",
		},
		{
			name:       "notifier failure",
			now:        clock(9, 0),
			statistics: fixedStatistics(activity.Statistics{TodayCards: 1}),
			notifyErr:  errors.New("no display"),
			wantErr:    "send reminder notification: no display",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planner, err := NewPlanner(testReminderConfig())
			require.NoError(t, err)
			notifier := &recordingNotifier{err: tt.notifyErr}

			scheduler := NewScheduler(planner, tt.statistics, notifier,
				WithClock(func() time.Time { return tt.now }),
				WithLocation(time.UTC),
				WithLogger(discardLogger),
			)
			sent, err := scheduler.Check(context.Background())
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSent, sent)
			if tt.wantSent {
				assert.Len(t, notifier.sent(), 1)
			} else {
				assert.Empty(t, notifier.sent())
			}
		})
	}
}

func TestScheduler_Run(t *testing.T) {
	planner, err := NewPlanner(testReminderConfig())
	require.NoError(t, err)
	notifier := &recordingNotifier{}

	// The clock advances one minute per tick, starting at 08:58
	var mu sync.Mutex
	now := clock(8, 58)
	tick := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current := now
		now = now.Add(time.Minute)
		return current
	}

	ctx, cancel := context.WithCancel(context.Background())
	scheduler := NewScheduler(planner, fixedStatistics(activity.Statistics{TodayCards: 2}), notifier,
		WithClock(tick),
		WithLocation(time.UTC),
		WithInterval(time.Millisecond),
		WithLogger(discardLogger),
	)

	done := make(chan error, 1)
	go func() {
		done <- scheduler.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return len(notifier.sent()) == 1
	}, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
	assert.Equal(t, KindReminder, notifier.sent()[0].Kind)
}
