package postgres

import (
	"context"
	"fmt"

	"github.com/vladislavdragonenkov/wms/internal/storage/collection"
)

// LoadAll читает снимки всех коллекций.
func (s *Store) LoadAll(ctx context.Context) (map[string]collection.Records, error) {
	if s == nil || s.db == nil {
		return nil, errNotInitialized
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name, payload FROM collection_snapshots`)
	if err != nil {
		return nil, fmt.Errorf("query collection snapshots: %w", err)
	}
	defer rows.Close()

	result := make(map[string]collection.Records)
	for rows.Next() {
		var (
			name    string
			payload []byte
		)
		if err := rows.Scan(&name, &payload); err != nil {
			return nil, fmt.Errorf("scan collection snapshot: %w", err)
		}
		records, err := collection.DecodeSnapshot(name, payload)
		if err != nil {
			return nil, err
		}
		result[name] = records
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collection snapshots: %w", err)
	}
	return result, nil
}

// Save заменяет снимок коллекции одной upsert-операцией.
func (s *Store) Save(ctx context.Context, name string, records collection.Records) error {
	if s == nil || s.db == nil {
		return errNotInitialized
	}

	payload, err := collection.EncodeSnapshot(records)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO collection_snapshots (name, payload, record_count, updated_at)
		VALUES ($1, $2::jsonb, $3, NOW())
		ON CONFLICT (name) DO UPDATE
		SET payload = EXCLUDED.payload,
			record_count = EXCLUDED.record_count,
			updated_at = EXCLUDED.updated_at
	`, name, string(payload), len(records)); err != nil {
		return fmt.Errorf("upsert collection snapshot %s: %w", name, err)
	}
	return nil
}

// Remove удаляет снимок коллекции.
func (s *Store) Remove(ctx context.Context, name string) error {
	if s == nil || s.db == nil {
		return errNotInitialized
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM collection_snapshots WHERE name = $1`, name); err != nil {
		return fmt.Errorf("delete collection snapshot %s: %w", name, err)
	}
	return nil
}

var _ collection.Backend = (*Store)(nil)
