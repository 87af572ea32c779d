package activity

import (
	"encoding/json"
	"fmt"
)

type encodedRecord struct {
	CardsReviewed int `json:"cardsReviewed"`
	SessionsCount int `json:"sessionsCount"`
}

// decodedRecord also accepts the field names written by the original web heatmap
// ("cards", "sessions"). "minutes" was never populated there and is ignored.
type decodedRecord struct {
	CardsReviewed *int `json:"cardsReviewed"`
	SessionsCount *int `json:"sessionsCount"`
	Cards         *int `json:"cards"`
	Sessions      *int `json:"sessions"`
}

func (r decodedRecord) record() DailyRecord {
	var record DailyRecord
	switch {
	case r.CardsReviewed != nil:
		record.CardsReviewed = *r.CardsReviewed
	case r.Cards != nil:
		record.CardsReviewed = *r.Cards
	}
	switch {
	case r.SessionsCount != nil:
		record.SessionsCount = *r.SessionsCount
	case r.Sessions != nil:
		record.SessionsCount = *r.Sessions
	}
	return record
}

// SkippedEntry is a stored entry that was dropped while decoding.
type SkippedEntry struct {
	Key    string
	Reason string
}

// Encode serializes the log as a JSON object keyed by date-key.
func Encode(log Log) (string, error) {
	out := make(map[string]encodedRecord, len(log))
	for date, record := range log {
		out[date.String()] = encodedRecord(record)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("json.Marshal(activity log) > %w", err)
	}
	return string(data), nil
}

// Decode parses a payload written by Encode. An unparseable payload is an error;
// individual entries with an invalid date-key or negative counts are skipped and reported.
func Decode(payload string) (Log, []SkippedEntry, error) {
	var in map[string]decodedRecord
	if err := json.Unmarshal([]byte(payload), &in); err != nil {
		return nil, nil, fmt.Errorf("json.Unmarshal(activity log) > %w", err)
	}

	log := make(Log, len(in))
	var skipped []SkippedEntry
	for key, raw := range in {
		date, err := ParseDate(key)
		if err != nil {
			skipped = append(skipped, SkippedEntry{Key: key, Reason: "invalid date key"})
			continue
		}
		record := raw.record()
		if record.CardsReviewed < 0 || record.SessionsCount < 0 {
			skipped = append(skipped, SkippedEntry{Key: key, Reason: "negative count"})
			continue
		}
		log[date] = record
	}
	return log, skipped, nil
}
