package achievement

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/studytracker/internal/activity"
	"github.com/at-ishikawa/studytracker/internal/storage"
)

// KeySuffix is appended to the activity storage key to get the key of unlocked achievements.
const KeySuffix = "_achievements"

// Book records which achievements were unlocked and when.
// Once unlocked, an achievement stays unlocked even if the statistic drops again.
type Book struct {
	store  storage.Store
	key    string
	logger *slog.Logger
}

func NewBook(store storage.Store, activityKey string, logger *slog.Logger) *Book {
	if logger == nil {
		logger = slog.Default()
	}
	return &Book{
		store:  store,
		key:    activityKey + KeySuffix,
		logger: logger,
	}
}

func (b *Book) Key() string {
	return b.key
}

// Unlocked returns the unlock date of each unlocked achievement.
func (b *Book) Unlocked(ctx context.Context) (map[string]activity.Date, error) {
	payload, found, err := b.store.Get(ctx, b.key)
	if err != nil {
		return nil, fmt.Errorf("store.Get(%s) > %w", b.key, err)
	}
	if !found {
		return make(map[string]activity.Date), nil
	}
	unlocked, err := DecodeUnlocked(payload)
	if err != nil {
		return nil, fmt.Errorf("%s > %w", b.key, err)
	}
	return unlocked, nil
}

// DecodeUnlocked parses a payload of unlocked achievements keyed by achievement ID.
func DecodeUnlocked(payload string) (map[string]activity.Date, error) {
	unlocked := make(map[string]activity.Date)
	if err := json.Unmarshal([]byte(payload), &unlocked); err != nil {
		return nil, fmt.Errorf("json.Unmarshal(unlocked achievements) > %w", err)
	}
	return unlocked, nil
}

// Check evaluates stats, unlocks the achievements that reached their target on today,
// and returns the progress of all achievements along with the ones unlocked by this call.
func (b *Book) Check(ctx context.Context, stats activity.Statistics, today activity.Date) ([]Progress, []Achievement, error) {
	unlocked, err := b.Unlocked(ctx)
	if err != nil {
		return nil, nil, err
	}

	progress := Evaluate(stats)
	var newlyUnlocked []Achievement
	for i, p := range progress {
		if date, ok := unlocked[p.ID]; ok {
			progress[i].Unlocked = true
			progress[i].UnlockedOn = date
			continue
		}
		if !p.Unlocked {
			continue
		}
		unlocked[p.ID] = today
		progress[i].UnlockedOn = today
		newlyUnlocked = append(newlyUnlocked, p.Achievement)
	}

	if len(newlyUnlocked) == 0 {
		return progress, nil, nil
	}

	data, err := json.Marshal(unlocked)
	if err != nil {
		return nil, nil, fmt.Errorf("json.Marshal(%s) > %w", b.key, err)
	}
	if err := b.store.Set(ctx, b.key, string(data)); err != nil {
		return nil, nil, fmt.Errorf("store.Set(%s) > %w", b.key, err)
	}
	for _, a := range newlyUnlocked {
		b.logger.Info("achievement unlocked",
			slog.String("id", a.ID),
			slog.String("date", today.String()),
		)
	}
	return progress, newlyUnlocked, nil
}
