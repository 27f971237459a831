package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolhub/school-console/internal/core/ports"
)

// StateStore keeps one row per key in console_state.
type StateStore struct {
	pool *pgxpool.Pool
}

func NewStateStore(pool *pgxpool.Pool) *StateStore {
	return &StateStore{pool: pool}
}

func (s *StateStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.pool.QueryRow(ctx, `SELECT value FROM console_state WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select state %s: %w", key, err)
	}
	return value, true, nil
}

func (s *StateStore) Set(ctx context.Context, key, value string) error {
	const query = `
		INSERT INTO console_state (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	if _, err := s.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("upsert state %s: %w", key, err)
	}
	return nil
}

func (s *StateStore) Remove(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM console_state WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete state %s: %w", key, err)
	}
	return nil
}

func (s *StateStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

var _ ports.PersistenceStore = (*StateStore)(nil)
