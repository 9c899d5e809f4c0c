package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samorobo/twitter-trends-bot/internal/storage"
)

// ensure postgresBackend implements storage.Backend
var _ storage.Backend = (*postgresBackend)(nil)

type postgresBackend struct {
	pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS trend_runs (
	id TEXT PRIMARY KEY,
	country TEXT NOT NULL,
	source TEXT NOT NULL,
	trends JSONB NOT NULL,
	duration_ms BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
`

// New creates a new Postgres-backed storage.Backend.
func New(ctx context.Context, dsn string) (storage.Backend, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	_, err = pool.Exec(ctx, schema)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &postgresBackend{pool: pool}, nil
}

func (b *postgresBackend) Save(ctx context.Context, record *storage.RunRecord) error {
	trendsJSON, err := json.Marshal(record.Trends)
	if err != nil {
		return fmt.Errorf("marshal trends: %w", err)
	}

	query := `
	INSERT INTO trend_runs (
		id, country, source, trends, duration_ms, created_at
	) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = b.pool.Exec(ctx, query,
		record.ID,
		record.Country,
		record.Source,
		trendsJSON,
		record.Duration.Milliseconds(),
		record.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	return nil
}

func (b *postgresBackend) Query(ctx context.Context, filter storage.Filter) ([]*storage.RunRecord, error) {
	query := `SELECT id, country, source, trends, duration_ms, created_at FROM trend_runs WHERE 1=1`
	args := []any{}
	paramCount := 1

	if filter.Country != "" {
		query += fmt.Sprintf(` AND country = $%d`, paramCount)
		args = append(args, filter.Country)
		paramCount++
	}
	if filter.Source != "" {
		query += fmt.Sprintf(` AND source = $%d`, paramCount)
		args = append(args, filter.Source)
		paramCount++
	}
	if filter.Since != nil {
		query += fmt.Sprintf(` AND created_at >= $%d`, paramCount)
		args = append(args, *filter.Since)
		paramCount++
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, paramCount)
		args = append(args, filter.Limit)
		paramCount++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, paramCount)
		args = append(args, filter.Offset)
		paramCount++
	}

	rows, err := b.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var records []*storage.RunRecord
	for rows.Next() {
		var r storage.RunRecord
		var trendsJSON []byte
		var durationMs int64

		err := rows.Scan(&r.ID, &r.Country, &r.Source, &trendsJSON, &durationMs, &r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}

		r.Duration = time.Duration(durationMs) * time.Millisecond
		if err := json.Unmarshal(trendsJSON, &r.Trends); err != nil {
			return nil, fmt.Errorf("decode trends: %w", err)
		}

		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return records, nil
}

func (b *postgresBackend) Close() error {
	b.pool.Close()
	return nil
}
