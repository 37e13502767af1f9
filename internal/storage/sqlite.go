package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/baiirun/kanban/internal/db"
)

// SQLiteSlot stores values in the kv table of a kanban database.
type SQLiteSlot struct {
	db *db.DB
}

// OpenSQLiteSlot opens (creating if needed) the database at path.
func OpenSQLiteSlot(path string) (*SQLiteSlot, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := database.Init(); err != nil {
		_ = database.Close()
		return nil, err
	}
	return &SQLiteSlot{db: database}, nil
}

func (s *SQLiteSlot) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.db.GetValue(ctx, key)
	if errors.Is(err, db.ErrNoValue) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *SQLiteSlot) Set(ctx context.Context, key string, value []byte) error {
	return s.db.PutValue(ctx, key, value)
}

func (s *SQLiteSlot) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
