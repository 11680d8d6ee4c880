package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/freight-kpi/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS dispatch_timestamps (
	dispatch_id      TEXT PRIMARY KEY,
	pickup_arrival   TEXT,
	pickup_entry     TEXT,
	pickup_exit      TEXT,
	delivery_arrival TEXT,
	delivery_entry   TEXT,
	delivery_exit    TEXT,
	updated_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS import_runs (
	id         TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	row_count  INTEGER NOT NULL DEFAULT 0,
	merged     INTEGER NOT NULL DEFAULT 0,
	skipped    INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_import_runs_created_at ON import_runs(created_at);
`

// sqliteUpsert merges one row, keeping stored values where the new one is NULL.
var sqliteUpsert = func() string {
	cols := timestampColumns()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)+1), ", ")
	sets := make([]string, 0, len(cols))
	for _, c := range cols[1:] {
		sets = append(sets, fmt.Sprintf("%s = COALESCE(excluded.%s, %s.%s)", c, c, timestampsTable, c))
	}
	sets = append(sets, "updated_at = excluded.updated_at")
	return fmt.Sprintf(
		"INSERT INTO %s (%s, updated_at) VALUES (%s) ON CONFLICT(dispatch_id) DO UPDATE SET %s",
		timestampsTable, strings.Join(cols, ", "), placeholders, strings.Join(sets, ", "),
	)
}()

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) MergeTimestamps(ctx context.Context, rows []model.ExternalTimestamps) (int, error) {
	merged := collapse(rows)
	if len(merged) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin merge")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, sqliteUpsert)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare merge")
	}
	defer stmt.Close() //nolint:errcheck

	now := time.Now().UTC()
	for _, r := range merged {
		if _, err := stmt.ExecContext(ctx, append(rowValues(r), now)...); err != nil {
			return 0, eris.Wrapf(err, "sqlite: merge timestamps %s", r.DispatchID)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit merge")
	}
	return len(merged), nil
}

func (s *SQLiteStore) GetTimestamps(ctx context.Context, dispatchID string) (model.TimestampRecord, error) {
	vals, dests := fieldDests()
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE dispatch_id = ?", strings.Join(timestampColumns()[1:], ", "), timestampsTable),
		dispatchID,
	).Scan(dests...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get timestamps %s", dispatchID)
	}
	return recordFrom(vals), nil
}

func (s *SQLiteStore) ListTimestamps(ctx context.Context) ([]model.ExternalTimestamps, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s ORDER BY dispatch_id", strings.Join(timestampColumns(), ", "), timestampsTable),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list timestamps")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.ExternalTimestamps
	for rows.Next() {
		var id string
		vals, dests := fieldDests()
		if err := rows.Scan(append([]any{&id}, dests...)...); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan timestamps")
		}
		out = append(out, model.ExternalTimestamps{DispatchID: id, Fields: recordFrom(vals)})
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate timestamps")
}

func (s *SQLiteStore) RecordImport(ctx context.Context, run ImportRun) (*ImportRun, error) {
	run.ID = uuid.New().String()
	run.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO import_runs (id, source, row_count, merged, skipped, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.Rows, run.Merged, run.Skipped, run.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert import run")
	}
	return &run, nil
}

func (s *SQLiteStore) ListImports(ctx context.Context, limit int) ([]ImportRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, row_count, merged, skipped, created_at FROM import_runs ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list import runs")
	}
	defer rows.Close() //nolint:errcheck

	var out []ImportRun
	for rows.Next() {
		var r ImportRun
		if err := rows.Scan(&r.ID, &r.Source, &r.Rows, &r.Merged, &r.Skipped, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan import run")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate import runs")
}
