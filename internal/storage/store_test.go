package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/studytracker/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		storage func(dir string) config.StorageConfig
		sqlite  func(dir string) config.SQLiteConfig
		want    Store
		wantErr error
	}{
		{
			name:    "file backend",
			storage: func(dir string) config.StorageConfig { return config.StorageConfig{Backend: "file", Directory: dir} },
			want:    &FileStore{},
		},
		{
			name:    "empty backend defaults to file",
			storage: func(dir string) config.StorageConfig { return config.StorageConfig{Directory: dir} },
			want:    &FileStore{},
		},
		{
			name:    "memory backend",
			storage: func(dir string) config.StorageConfig { return config.StorageConfig{Backend: "memory"} },
			want:    &MemoryStore{},
		},
		{
			name:    "sqlite backend",
			storage: func(dir string) config.StorageConfig { return config.StorageConfig{Backend: "sqlite"} },
			sqlite:  func(dir string) config.SQLiteConfig { return config.SQLiteConfig{Path: dir + "/studytracker.db"} },
			want:    &DBStore{},
		},
		{
			name:    "unknown backend",
			storage: func(dir string) config.StorageConfig { return config.StorageConfig{Backend: "mongodb"} },
			wantErr: ErrUnknownBackend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			cfg := &config.Config{Storage: tt.storage(dir)}
			if tt.sqlite != nil {
				cfg.SQLite = tt.sqlite(dir)
			}

			got, closer, err := New(context.Background(), cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer func() {
				assert.NoError(t, closer.Close())
			}()
			assert.IsType(t, tt.want, got)

			ctx := context.Background()
			require.NoError(t, got.Set(ctx, "anki_study_activity", `{"2024-03-01":{"cardsReviewed":5,"sessionsCount":1}}`))
			value, found, err := got.Get(ctx, "anki_study_activity")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, `{"2024-03-01":{"cardsReviewed":5,"sessionsCount":1}}`, value)
		})
	}
}
