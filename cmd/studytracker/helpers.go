package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/at-ishikawa/studytracker/internal/achievement"
	"github.com/at-ishikawa/studytracker/internal/activity"
	"github.com/at-ishikawa/studytracker/internal/config"
	"github.com/at-ishikawa/studytracker/internal/storage"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// session is a loaded tracker with the store it reads from.
type session struct {
	cfg     *config.Config
	tracker *activity.Tracker
	book    *achievement.Book
	close   func() error
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store, closer, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("storage.New() > %w", err)
	}
	tracker, err := newTracker(cfg, store)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	result := tracker.Load(ctx)
	slog.Debug("loaded the activity log",
		slog.String("backend", cfg.Storage.Backend),
		slog.String("status", string(result.Status)),
		slog.Int("days", result.Days),
	)

	return &session{
		cfg:     cfg,
		tracker: tracker,
		book:    achievement.NewBook(store, cfg.Activity.StorageKey, slog.Default()),
		close:   closer.Close,
	}, nil
}

func newTracker(cfg *config.Config, store storage.Store) (*activity.Tracker, error) {
	loc, err := cfg.Activity.Location()
	if err != nil {
		return nil, fmt.Errorf("cfg.Activity.Location() > %w", err)
	}
	return activity.NewTracker(store,
		activity.WithStorageKey(cfg.Activity.StorageKey),
		activity.WithLocation(loc),
		activity.WithWeekStart(cfg.Activity.WeekStartDay()),
	), nil
}

// dateFlag is an optional YYYY-MM-DD date. Unset means today.
type dateFlag struct {
	date activity.Date
}

var _ pflag.Value = (*dateFlag)(nil)

func (d *dateFlag) Set(val string) error {
	date, err := activity.ParseDate(val)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", val)
	}
	d.date = date
	return nil
}

func (d dateFlag) String() string {
	if d.date.IsZero() {
		return ""
	}
	return d.date.String()
}

func (d *dateFlag) Type() string {
	return "date"
}

// at returns a time on the flag's date in loc, or now when the flag is unset.
func (d dateFlag) at(now time.Time, loc *time.Location) time.Time {
	if d.date.IsZero() {
		return now
	}
	return d.date.Time(loc).Add(12 * time.Hour)
}

// Backend is a storage backend name.
type Backend string

var allBackends = []Backend{"file", "memory", "mysql", "sqlite", "redis"}

var _ pflag.Value = (*Backend)(nil)

func (b *Backend) Set(val string) error {
	for _, backend := range allBackends {
		if val == string(backend) {
			*b = backend
			return nil
		}
	}
	return fmt.Errorf("invalid backend: %s. Possible values are %s", val, joinBackends())
}

func (b Backend) String() string {
	return string(b)
}

func (b *Backend) Type() string {
	return "backend"
}

func joinBackends() string {
	names := make([]string, 0, len(allBackends))
	for _, b := range allBackends {
		names = append(names, string(b))
	}
	return strings.Join(names, ", ")
}
