// Package storage provides key-value stores for persisted study data.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"

	"github.com/at-ishikawa/studytracker/internal/config"
	"github.com/at-ishikawa/studytracker/internal/database"
)

//go:generate mockgen -source=store.go -destination=../mocks/storage/mock_store.go -package=mock_storage

// Store is a string key-value store.
// Get reports found=false without an error when the key does not exist.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string) error
}

var (
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrInvalidKey     = errors.New("invalid storage key")
)

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

var nopCloser = closerFunc(func() error { return nil })

// New creates the store selected by cfg.Storage.Backend.
// The returned closer releases the underlying connection and must be called when the store is no longer used.
func New(ctx context.Context, cfg *config.Config) (Store, io.Closer, error) {
	switch cfg.Storage.Backend {
	case "", "file":
		return NewFileStore(cfg.Storage.Directory), nopCloser, nil
	case "memory":
		return NewMemoryStore(), nopCloser, nil
	case "mysql":
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("database.Open > %w", err)
		}
		store := NewDBStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store, db, nil
	case "sqlite":
		db, err := database.OpenSQLite(ctx, cfg.SQLite)
		if err != nil {
			return nil, nil, fmt.Errorf("database.OpenSQLite > %w", err)
		}
		store := NewDBStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store, db, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Address, err)
		}
		return NewRedisStore(client, cfg.Redis.Prefix), client, nil
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Storage.Backend)
	}
}
