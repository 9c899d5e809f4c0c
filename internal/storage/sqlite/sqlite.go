package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/samorobo/twitter-trends-bot/internal/storage"
	_ "modernc.org/sqlite"
)

// ensure sqliteBackend implements storage.Backend
var _ storage.Backend = (*sqliteBackend)(nil)

type sqliteBackend struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS trend_runs (
	id TEXT PRIMARY KEY,
	country TEXT NOT NULL,
	source TEXT NOT NULL,
	trends TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	created_at DATETIME NOT NULL
);
`

// New creates a new SQLite-backed storage.Backend.
func New(dsn string) (storage.Backend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &sqliteBackend{db: db}, nil
}

func (b *sqliteBackend) Save(ctx context.Context, record *storage.RunRecord) error {
	trendsJSON, err := json.Marshal(record.Trends)
	if err != nil {
		return fmt.Errorf("marshal trends: %w", err)
	}

	query := `
	INSERT INTO trend_runs (
		id, country, source, trends, duration_ms, created_at
	) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = b.db.ExecContext(ctx, query,
		record.ID,
		record.Country,
		record.Source,
		string(trendsJSON),
		record.Duration.Milliseconds(),
		record.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	return nil
}

func (b *sqliteBackend) Query(ctx context.Context, filter storage.Filter) ([]*storage.RunRecord, error) {
	query := `SELECT id, country, source, trends, duration_ms, created_at FROM trend_runs WHERE 1=1`
	args := []any{}

	if filter.Country != "" {
		query += ` AND country = ?`
		args = append(args, filter.Country)
	}
	if filter.Source != "" {
		query += ` AND source = ?`
		args = append(args, filter.Source)
	}
	if filter.Since != nil {
		query += ` AND created_at >= ?`
		args = append(args, *filter.Since)
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var records []*storage.RunRecord
	for rows.Next() {
		var r storage.RunRecord
		var trendsJSON string
		var durationMs int64

		err := rows.Scan(&r.ID, &r.Country, &r.Source, &trendsJSON, &durationMs, &r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}

		r.Duration = time.Duration(durationMs) * time.Millisecond
		if err := json.Unmarshal([]byte(trendsJSON), &r.Trends); err != nil {
			return nil, fmt.Errorf("decode trends: %w", err)
		}

		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return records, nil
}

func (b *sqliteBackend) Close() error {
	return b.db.Close()
}
