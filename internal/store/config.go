package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// GetConfig reads one value from the platform key-value config store.
// An absent key is not an error; ok reports whether the key existed.
func (s *PostgresStore) GetConfig(ctx context.Context, key string) (value string, ok bool, err error) {
	err = s.pool.QueryRow(ctx,
		`SELECT value FROM configs WHERE key = $1`, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading config %s: %w", key, err)
	}
	return value, true, nil
}

// SetConfig upserts one key-value pair. The destination table rides on a
// single key, so each save replaces the whole table in one write.
func (s *PostgresStore) SetConfig(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO configs (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("writing config %s: %w", key, err)
	}
	return nil
}
