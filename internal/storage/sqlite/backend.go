package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/vladislavdragonenkov/wms/internal/storage/collection"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS collection_snapshots (
	name TEXT PRIMARY KEY,
	payload BLOB NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
)`

// Backend хранит снимок каждой коллекции строкой таблицы collection_snapshots.
type Backend struct {
	db   *sql.DB
	path string
}

// Open открывает (или создаёт) файл базы и таблицу снимков.
func Open(ctx context.Context, path string) (*Backend, error) {
	if path == "" {
		path = "wms.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Один писатель: sqlite всё равно сериализует записи.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshot table: %w", err)
	}
	return &Backend{db: db, path: path}, nil
}

// LoadAll читает все снимки из таблицы.
func (b *Backend) LoadAll(ctx context.Context) (map[string]collection.Records, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT name, payload FROM collection_snapshots`)
	if err != nil {
		return nil, fmt.Errorf("select snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]collection.Records)
	for rows.Next() {
		var (
			name    string
			payload []byte
		)
		if err := rows.Scan(&name, &payload); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		records, err := collection.DecodeSnapshot(name, payload)
		if err != nil {
			return nil, err
		}
		result[name] = records
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return result, nil
}

// Save заменяет снимок коллекции одной upsert-операцией.
func (b *Backend) Save(ctx context.Context, name string, records collection.Records) error {
	data, err := collection.EncodeSnapshot(records)
	if err != nil {
		return err
	}
	if _, err := b.db.ExecContext(ctx, `
		INSERT INTO collection_snapshots(name, payload, updated_at)
		VALUES(?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, name, data); err != nil {
		return fmt.Errorf("upsert snapshot %s: %w", name, err)
	}
	return nil
}

// Remove удаляет строку коллекции.
func (b *Backend) Remove(ctx context.Context, name string) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM collection_snapshots WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete snapshot %s: %w", name, err)
	}
	return nil
}

// Ping проверяет доступность базы.
func (b *Backend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

// Path возвращает путь к файлу базы.
func (b *Backend) Path() string { return b.path }

func (b *Backend) Close() error {
	return b.db.Close()
}

var _ collection.Backend = (*Backend)(nil)
