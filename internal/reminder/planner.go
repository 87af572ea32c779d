// Package reminder sends study reminders at configured times of day.
package reminder

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/at-ishikawa/studytracker/internal/activity"
	"github.com/at-ishikawa/studytracker/internal/config"
)

const clockLayout = "15:04"

type Kind string

const (
	KindReminder    Kind = "reminder"
	KindCelebration Kind = "celebration"
)

type Notification struct {
	Kind    Kind
	Title   string
	Message string
}

// Planner decides which notification, if any, is due at a given minute.
// It is not safe for concurrent use.
type Planner struct {
	enabled       bool
	times         map[string]struct{}
	dailyGoal     int
	streakEnabled bool
	title         string
	message       string

	lastSlot     string
	celebratedOn activity.Date
}

func NewPlanner(cfg config.ReminderConfig) (*Planner, error) {
	times := make(map[string]struct{}, len(cfg.Times))
	for _, t := range cfg.Times {
		parsed, err := time.Parse(clockLayout, t)
		if err != nil {
			return nil, fmt.Errorf("invalid reminder time %q: %w", t, err)
		}
		times[parsed.Format(clockLayout)] = struct{}{}
	}
	return &Planner{
		enabled:       cfg.Enabled,
		times:         times,
		dailyGoal:     cfg.DailyGoal,
		streakEnabled: cfg.StreakEnabled,
		title:         cfg.Title,
		message:       cfg.Message,
	}, nil
}

// Decide returns the notification due at now. A reminder is sent at a configured minute while
// today's cards are below the daily goal; once the goal is met a single celebration is sent for the day.
// Each minute slot is decided at most once.
func (p *Planner) Decide(now time.Time, stats activity.Statistics) (Notification, bool) {
	if !p.enabled {
		return Notification{}, false
	}
	minute := now.Format(clockLayout)
	if _, ok := p.times[minute]; !ok {
		return Notification{}, false
	}
	slot := now.Format("2006-01-02 ") + minute
	if p.lastSlot == slot {
		return Notification{}, false
	}
	p.lastSlot = slot

	if stats.TodayCards >= p.dailyGoal {
		today := activity.DateOf(now, now.Location())
		if p.celebratedOn == today {
			return Notification{}, false
		}
		p.celebratedOn = today
		return Notification{
			Kind:    KindCelebration,
			Title:   "Study Complete",
			Message: fmt.Sprintf("Great job! You reviewed %d cards today and reached your goal of %d.", stats.TodayCards, p.dailyGoal),
		}, true
	}

	message := strings.NewReplacer(
		"{cards}", strconv.Itoa(stats.TodayCards),
		"{goal}", strconv.Itoa(p.dailyGoal),
		"{remaining}", strconv.Itoa(p.dailyGoal-stats.TodayCards),
	).Replace(p.message)
	if p.streakEnabled && stats.CurrentStreak > 0 {
		message += fmt.Sprintf("\nCurrent streak: %d days", stats.CurrentStreak)
	}
	return Notification{
		Kind:    KindReminder,
		Title:   p.title,
		Message: message,
	}, true
}
