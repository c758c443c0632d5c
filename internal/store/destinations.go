package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Babidiii/webhoogz/internal/domain"
)

// DestinationsConfigKey is the config-store key holding the JSON-encoded
// destination table.
const DestinationsConfigKey = "WEBHOOK_CONFIG"

// LoadDestinations deserializes the full destination table. An absent or
// empty config key yields an empty table. Each call reads the single config
// row, so concurrent readers see either the old or the new table, never a
// partial one.
func (s *PostgresStore) LoadDestinations(ctx context.Context) (domain.DestinationTable, error) {
	raw, ok, err := s.GetConfig(ctx, DestinationsConfigKey)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return domain.DestinationTable{}, nil
	}

	var table domain.DestinationTable
	if err := json.Unmarshal([]byte(raw), &table); err != nil {
		return nil, fmt.Errorf("decoding destination table: %w", err)
	}
	return table, nil
}

// SaveDestinations serializes and persists the entire table in a single
// write. Full-replacement semantics: whatever was stored before is gone.
func (s *PostgresStore) SaveDestinations(ctx context.Context, table domain.DestinationTable) error {
	raw, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("encoding destination table: %w", err)
	}
	return s.SetConfig(ctx, DestinationsConfigKey, string(raw))
}
