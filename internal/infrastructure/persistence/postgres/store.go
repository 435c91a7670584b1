package postgres

import (
	"context"
	"errors"
)

// ErrKeyEmpty is returned when an empty key is provided.
var ErrKeyEmpty = errors.New("postgres: key cannot be empty")

const (
	getEntrySQL = `SELECT value FROM schedule_entries WHERE key = $1`

	upsertEntrySQL = `
		INSERT INTO schedule_entries (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
)

// Store implements schedule.Store on the schedule_entries table.
type Store struct {
	conn *Connection
}

// NewStore wraps a migrated connection.
func NewStore(conn *Connection) *Store {
	return &Store{conn: conn}
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrKeyEmpty
	}

	var value string
	if err := s.conn.QueryRow(ctx, getEntrySQL, key).Scan(&value); err != nil {
		if IsNoRows(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// Set overwrites the value stored under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrKeyEmpty
	}
	_, err := s.conn.Exec(ctx, upsertEntrySQL, key, value)
	return err
}

// Ping checks the pool.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

// Close closes the pool.
func (s *Store) Close() error {
	s.conn.Close()
	return nil
}
