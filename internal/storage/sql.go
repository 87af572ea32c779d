package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/studytracker/internal/database"
	"github.com/at-ishikawa/studytracker/schemas"
)

// DBStore stores values in the key_values table of a MySQL or SQLite database.
type DBStore struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewDBStore(db *sqlx.DB) *DBStore {
	return &DBStore{
		db:  db,
		now: time.Now,
	}
}

// EnsureSchema applies the embedded migrations for the driver of the connection.
func (s *DBStore) EnsureSchema(ctx context.Context) error {
	statements, err := schemas.Statements(s.db.DriverName())
	if err != nil {
		return fmt.Errorf("schemas.Statements() > %w", err)
	}
	for _, statement := range statements {
		if _, err := s.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}

func (s *DBStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, "SELECT value FROM key_values WHERE storage_key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get key %s: %w", key, err)
	}
	return value, true, nil
}

func (s *DBStore) Set(ctx context.Context, key string, value string) error {
	return database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM key_values WHERE storage_key = ?", key); err != nil {
			return fmt.Errorf("delete key %s: %w", key, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO key_values (storage_key, value, updated_at) VALUES (?, ?, ?)",
			key, value, s.now().UTC(),
		); err != nil {
			return fmt.Errorf("insert key %s: %w", key, err)
		}
		return nil
	})
}
