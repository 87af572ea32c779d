package activity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/at-ishikawa/studytracker/internal/storage"
)

// DefaultStorageKey is the key the web heatmap used for its local storage entry.
const DefaultStorageKey = "anki_study_activity"

var ErrNegativeCardCount = errors.New("cards reviewed must not be negative")

// LoadStatus tells callers of Load what was found in the store.
type LoadStatus string

const (
	LoadStatusLoaded     LoadStatus = "loaded"
	LoadStatusEmpty      LoadStatus = "empty"
	LoadStatusReadFailed LoadStatus = "read_failed"
	LoadStatusCorrupt    LoadStatus = "corrupt"
)

// LoadResult describes the outcome of Load. Err is set for read failures and corrupt payloads.
type LoadResult struct {
	Status  LoadStatus
	Err     error
	Days    int
	Skipped []SkippedEntry
}

// Tracker owns the activity log. All mutations go through RecordSession and MarkVisited,
// and every mutation persists the full log.
type Tracker struct {
	store     storage.Store
	key       string
	location  *time.Location
	weekStart time.Weekday
	now       func() time.Time
	logger    *slog.Logger

	mu         sync.Mutex
	log        Log
	snapshot   Statistics
	persistErr error
}

type Option func(*Tracker)

func WithStorageKey(key string) Option {
	return func(t *Tracker) {
		t.key = key
	}
}

// WithLocation sets the time zone used to turn timestamps into date-keys.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		t.location = loc
	}
}

// WithWeekStart sets the weekday of the first calendar grid column.
func WithWeekStart(day time.Weekday) Option {
	return func(t *Tracker) {
		t.weekStart = day
	}
}

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// NewTracker creates a tracker with an empty log. Call Load to read persisted activity.
func NewTracker(store storage.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:     store,
		key:       DefaultStorageKey,
		location:  time.Local,
		weekStart: time.Sunday,
		now:       time.Now,
		logger:    slog.Default(),
		log:       make(Log),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load replaces the in-memory log with the persisted one.
// It never fails: unreadable or unparseable data leaves an empty log and is reported in the result.
func (t *Tracker) Load(ctx context.Context) LoadResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.log = make(Log)
	defer func() {
		t.snapshot = ComputeStatistics(t.log, t.today(t.now()))
	}()

	payload, found, err := t.store.Get(ctx, t.key)
	if err != nil {
		t.logger.Error("failed to read the activity log, continuing with an empty log",
			slog.String("key", t.key),
			slog.Any("error", err),
		)
		return LoadResult{Status: LoadStatusReadFailed, Err: err}
	}
	if !found {
		return LoadResult{Status: LoadStatusEmpty}
	}

	log, skipped, err := Decode(payload)
	if err != nil {
		t.logger.Error("failed to parse the activity log, treating it as empty",
			slog.String("key", t.key),
			slog.Any("error", err),
		)
		return LoadResult{Status: LoadStatusCorrupt, Err: err}
	}
	for _, entry := range skipped {
		t.logger.Warn("skipped an invalid activity entry",
			slog.String("key", t.key),
			slog.String("date", entry.Key),
			slog.String("reason", entry.Reason),
		)
	}

	t.log = log
	return LoadResult{Status: LoadStatusLoaded, Days: len(log), Skipped: skipped}
}

// RecordSession adds a completed study batch to today's record.
// Storage failures are logged and retried by the next mutation; only invalid input is returned.
func (t *Tracker) RecordSession(ctx context.Context, cardsReviewed int, today time.Time) error {
	if cardsReviewed < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeCardCount, cardsReviewed)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	date := t.today(today)
	record := t.log[date]
	record.CardsReviewed += cardsReviewed
	record.SessionsCount++
	t.log[date] = record

	t.snapshot = ComputeStatistics(t.log, date)
	t.persistLocked(ctx)
	return nil
}

// MarkVisited creates an empty record for today unless one exists. It reports whether a record was created.
func (t *Tracker) MarkVisited(ctx context.Context, today time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	date := t.today(today)
	if _, ok := t.log[date]; ok {
		return false
	}
	t.log[date] = DailyRecord{}

	t.snapshot = ComputeStatistics(t.log, date)
	t.persistLocked(ctx)
	return true
}

// Save writes the full log to the store and returns the storage error, if any.
func (t *Tracker) Save(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.persistLocked(ctx)
	return t.persistErr
}

// PersistError returns the error of the latest write, or nil if it succeeded.
func (t *Tracker) PersistError() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.persistErr
}

func (t *Tracker) persistLocked(ctx context.Context) {
	payload, err := Encode(t.log)
	if err == nil {
		err = t.store.Set(ctx, t.key, payload)
	}
	if err != nil {
		t.logger.Error("failed to persist the activity log, keeping it in memory",
			slog.String("key", t.key),
			slog.Int("days", len(t.log)),
			slog.Any("error", err),
		)
	}
	t.persistErr = err
}

// ComputeStatistics derives statistics from the current log as seen on now.
func (t *Tracker) ComputeStatistics(now time.Time) Statistics {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ComputeStatistics(t.log, t.today(now))
}

// Snapshot returns the statistics computed by the latest Load or mutation.
func (t *Tracker) Snapshot() Statistics {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot
}

// BuildCalendarGrid returns the calendar grid between the dates of start and end inclusive.
func (t *Tracker) BuildCalendarGrid(start, end time.Time) []Week {
	t.mu.Lock()
	defer t.mu.Unlock()
	return BuildCalendarGrid(t.log, t.today(start), t.today(end), t.weekStart)
}

// RecentGrid returns the grid for the given number of days ending on now.
func (t *Tracker) RecentGrid(now time.Time, days int) []Week {
	if days <= 0 {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	end := t.today(now)
	return BuildCalendarGrid(t.log, end.AddDays(-(days - 1)), end, t.weekStart)
}

// Records returns a copy of the log.
func (t *Tracker) Records() Log {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.log.clone()
}

// Today returns the date of now in the tracker's time zone.
func (t *Tracker) Today(now time.Time) Date {
	return t.today(now)
}

// Location returns the time zone in which timestamps become date-keys.
func (t *Tracker) Location() *time.Location {
	return t.location
}

func (t *Tracker) WeekStart() time.Weekday {
	return t.weekStart
}

func (t *Tracker) today(now time.Time) Date {
	return DateOf(now, t.location)
}

// StorageKey returns the store key of the activity log.
func (t *Tracker) StorageKey() string {
	return t.key
}
