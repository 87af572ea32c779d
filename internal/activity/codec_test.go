package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	log := Log{
		NewDate(2024, 3, 1): {CardsReviewed: 20, SessionsCount: 2},
		NewDate(2024, 3, 2): {},
	}

	got, err := Encode(log)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"2024-03-01": {"cardsReviewed": 20, "sessionsCount": 2},
		"2024-03-02": {"cardsReviewed": 0, "sessionsCount": 0}
	}`, got)
}

func TestEncode_EmptyLog(t *testing.T) {
	got, err := Encode(Log{})
	require.NoError(t, err)
	assert.Equal(t, "{}", got)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		payload     string
		want        Log
		wantSkipped []SkippedEntry
		wantErr     bool
	}{
		{
			name:    "current field names",
			payload: `{"2024-03-01":{"cardsReviewed":20,"sessionsCount":2}}`,
			want: Log{
				NewDate(2024, 3, 1): {CardsReviewed: 20, SessionsCount: 2},
			},
		},
		{
			name:    "legacy field names",
			payload: `{"2024-03-01":{"cards":7,"sessions":1,"minutes":0}}`,
			want: Log{
				NewDate(2024, 3, 1): {CardsReviewed: 7, SessionsCount: 1},
			},
		},
		{
			name:    "visited day without counts",
			payload: `{"2024-03-01":{}}`,
			want: Log{
				NewDate(2024, 3, 1): {},
			},
		},
		{
			name:    "invalid entries are skipped",
			payload: `{"2024-03-01":{"cardsReviewed":3,"sessionsCount":1},"yesterday":{"cardsReviewed":1},"2024-03-02":{"cardsReviewed":-4,"sessionsCount":1}}`,
			want: Log{
				NewDate(2024, 3, 1): {CardsReviewed: 3, SessionsCount: 1},
			},
			wantSkipped: []SkippedEntry{
				{Key: "2024-03-02", Reason: "negative count"},
				{Key: "yesterday", Reason: "invalid date key"},
			},
		},
		{
			name:    "empty object",
			payload: `{}`,
			want:    Log{},
		},
		{
			name:    "unparseable payload",
			payload: `{"2024-03-01":`,
			wantErr: true,
		},
		{
			name:    "not an object",
			payload: `[1,2,3]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, skipped, err := Decode(tt.payload)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.ElementsMatch(t, tt.wantSkipped, skipped)
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	log := Log{
		NewDate(2023, 12, 31): {CardsReviewed: 50, SessionsCount: 3},
		NewDate(2024, 1, 1):   {CardsReviewed: 0, SessionsCount: 0},
	}
	payload, err := Encode(log)
	require.NoError(t, err)

	got, skipped, err := Decode(payload)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Equal(t, log, got)
}
