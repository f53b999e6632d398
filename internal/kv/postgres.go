package kv

import (
	"context"
	"errors"

	"backend-yatra/internal/db"

	"github.com/jackc/pgx/v5"
)

// PostgresStore keeps entries in the kv_entries table, for deployments
// without Redis.
type PostgresStore struct {
	db db.Querier
}

func NewPostgresStore(db db.Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRow(ctx, `SELECT value FROM kv_entries WHERE key=$1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrMissing
	}
	return value, err
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1,$2, now())
		ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=now()
	`, key, value)
	return err
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM kv_entries WHERE key=$1`, key)
	return err
}
