package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/freight-kpi/internal/db"
	"github.com/sells-group/freight-kpi/internal/model"
	"github.com/sells-group/freight-kpi/internal/resilience"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

var (
	pgSelectTimestamps = fmt.Sprintf("SELECT %s FROM %s WHERE dispatch_id = $1",
		strings.Join(timestampColumns()[1:], ", "), timestampsTable)
	pgListTimestamps = fmt.Sprintf("SELECT %s FROM %s ORDER BY dispatch_id",
		strings.Join(timestampColumns(), ", "), timestampsTable)
)

const (
	pgInsertImport = `INSERT INTO import_runs (id, source, row_count, merged, skipped, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	pgListImports  = `SELECT id, source, row_count, merged, skipped, created_at FROM import_runs ORDER BY created_at DESC LIMIT $1`
)

// preparedStatements are prepared on each new connection.
var preparedStatements = map[string]string{
	"select_timestamps": pgSelectTimestamps,
	"insert_import":     pgInsertImport,
	"list_imports":      pgListImports,
}

// timestampsUpsert merges rows without clearing filled columns.
var timestampsUpsert = db.UpsertConfig{
	Table:        timestampsTable,
	Columns:      timestampColumns(),
	ConflictKeys: []string{"dispatch_id"},
	KeepFilled:   true,
}

// pingRetry covers a database that is still accepting connections.
var pingRetry = resilience.RetryConfig{
	MaxAttempts:    5,
	InitialBackoff: 250 * time.Millisecond,
	MaxBackoff:     4 * time.Second,
	OnRetry:        resilience.RetryLogger("postgres", "ping"),
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	_, err = resilience.Do(ctx, pingRetry, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, pool.Ping(ctx)
	})
	if err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS dispatch_timestamps (
	dispatch_id      TEXT PRIMARY KEY,
	pickup_arrival   TEXT,
	pickup_entry     TEXT,
	pickup_exit      TEXT,
	delivery_arrival TEXT,
	delivery_entry   TEXT,
	delivery_exit    TEXT,
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS import_runs (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	source     TEXT NOT NULL,
	row_count  INTEGER NOT NULL DEFAULT 0,
	merged     INTEGER NOT NULL DEFAULT 0,
	skipped    INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_import_runs_created_at ON import_runs(created_at DESC);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) MergeTimestamps(ctx context.Context, rows []model.ExternalTimestamps) (int, error) {
	merged := collapse(rows)
	if len(merged) == 0 {
		return 0, nil
	}
	values := make([][]any, len(merged))
	for i, r := range merged {
		values[i] = rowValues(r)
	}
	if _, err := db.BulkUpsert(ctx, s.pool, timestampsUpsert, values); err != nil {
		return 0, eris.Wrap(err, "postgres: merge timestamps")
	}
	return len(merged), nil
}

func (s *PostgresStore) GetTimestamps(ctx context.Context, dispatchID string) (model.TimestampRecord, error) {
	vals, dests := fieldDests()
	err := s.pool.QueryRow(ctx, pgSelectTimestamps, dispatchID).Scan(dests...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get timestamps %s", dispatchID)
	}
	return recordFrom(vals), nil
}

func (s *PostgresStore) ListTimestamps(ctx context.Context) ([]model.ExternalTimestamps, error) {
	rows, err := s.pool.Query(ctx, pgListTimestamps)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list timestamps")
	}
	defer rows.Close()

	var out []model.ExternalTimestamps
	for rows.Next() {
		var id string
		vals, dests := fieldDests()
		if err := rows.Scan(append([]any{&id}, dests...)...); err != nil {
			return nil, eris.Wrap(err, "postgres: scan timestamps")
		}
		out = append(out, model.ExternalTimestamps{DispatchID: id, Fields: recordFrom(vals)})
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate timestamps")
}

func (s *PostgresStore) RecordImport(ctx context.Context, run ImportRun) (*ImportRun, error) {
	run.ID = uuid.New().String()
	run.CreatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx, pgInsertImport,
		run.ID, run.Source, run.Rows, run.Merged, run.Skipped, run.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert import run")
	}
	return &run, nil
}

func (s *PostgresStore) ListImports(ctx context.Context, limit int) ([]ImportRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, pgListImports, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list import runs")
	}
	defer rows.Close()

	var out []ImportRun
	for rows.Next() {
		var r ImportRun
		if err := rows.Scan(&r.ID, &r.Source, &r.Rows, &r.Merged, &r.Skipped, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan import run")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate import runs")
}
