package store

import (
	"context"
	"fmt"

	"github.com/Babidiii/webhoogz/internal/domain"
)

// AppendLog inserts one delivery attempt into webhook_logs. Entries are
// never updated afterwards.
func (s *PostgresStore) AppendLog(ctx context.Context, e domain.LogEntry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO webhook_logs (config_id, url, event_type, status, response_code, error_message, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.ConfigID, e.URL, e.EventType, e.Status, e.ResponseCode, e.ErrorMessage, e.Timestamp)
	if err != nil {
		return fmt.Errorf("inserting webhook log: %w", err)
	}
	return nil
}

// LogsForDestination returns the most recent delivery attempts for one
// destination, newest first.
func (s *PostgresStore) LogsForDestination(ctx context.Context, configID string, limit int) ([]domain.LogEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, config_id, url, event_type, status, response_code, error_message, timestamp
		FROM webhook_logs
		WHERE config_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`, configID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying webhook logs: %w", err)
	}
	defer rows.Close()

	var entries []domain.LogEntry
	for rows.Next() {
		var e domain.LogEntry
		err := rows.Scan(
			&e.ID, &e.ConfigID, &e.URL, &e.EventType,
			&e.Status, &e.ResponseCode, &e.ErrorMessage, &e.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning webhook log: %w", err)
		}
		entries = append(entries, e)
	}

	if entries == nil {
		entries = []domain.LogEntry{}
	}

	return entries, nil
}

// DeleteLogsForDestination purges all log entries for one destination.
// Called only when the destination itself is deleted.
func (s *PostgresStore) DeleteLogsForDestination(ctx context.Context, configID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM webhook_logs WHERE config_id = $1`, configID)
	if err != nil {
		return fmt.Errorf("deleting webhook logs: %w", err)
	}
	return nil
}
