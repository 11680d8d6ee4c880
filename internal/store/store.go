// Package store persists the external timestamp book and the import log.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/freight-kpi/internal/model"
	"github.com/sells-group/freight-kpi/internal/timestamps"
)

// ImportRun records one timestamp import.
type ImportRun struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Rows      int       `json:"rows"`
	Merged    int       `json:"merged"`
	Skipped   int       `json:"skipped"`
	CreatedAt time.Time `json:"created_at"`
}

// Store defines the persistence interface for merged dispatch milestones.
type Store interface {
	// Timestamp book. Merges use keep-filled semantics: a stored value is
	// only replaced by a filled one.
	MergeTimestamps(ctx context.Context, rows []model.ExternalTimestamps) (int, error)
	GetTimestamps(ctx context.Context, dispatchID string) (model.TimestampRecord, error)
	ListTimestamps(ctx context.Context) ([]model.ExternalTimestamps, error)

	// Import log
	RecordImport(ctx context.Context, run ImportRun) (*ImportRun, error)
	ListImports(ctx context.Context, limit int) ([]ImportRun, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}

// Drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the configured driver and runs migrations.
func Open(ctx context.Context, driver, dsn string, poolCfg *PoolConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch driver {
	case DriverSQLite, "":
		s, err = NewSQLite(dsn)
	case DriverPostgres:
		s, err = NewPostgres(ctx, dsn, poolCfg)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close() //nolint:errcheck
		return nil, err
	}
	return s, nil
}

const timestampsTable = "dispatch_timestamps"

// timestampColumns lists the book columns, key first.
func timestampColumns() []string {
	cols := make([]string, 0, len(model.TimestampFields)+1)
	cols = append(cols, "dispatch_id")
	for _, f := range model.TimestampFields {
		cols = append(cols, string(f))
	}
	return cols
}

// collapse merges rows sharing a dispatch id in ingestion order so each key
// is written once. First-seen order is kept.
func collapse(rows []model.ExternalTimestamps) []model.ExternalTimestamps {
	index := make(map[string]int, len(rows))
	out := make([]model.ExternalTimestamps, 0, len(rows))
	for _, r := range rows {
		if r.DispatchID == "" {
			continue
		}
		if i, ok := index[r.DispatchID]; ok {
			out[i].Fields = timestamps.MergeRecord(out[i].Fields, r.Fields)
			continue
		}
		index[r.DispatchID] = len(out)
		out = append(out, model.ExternalTimestamps{
			DispatchID: r.DispatchID,
			Fields:     timestamps.MergeRecord(nil, r.Fields),
		})
	}
	return out
}

// rowValues returns the column values for r. Unfilled fields are nil so the
// upsert keeps the stored value.
func rowValues(r model.ExternalTimestamps) []any {
	vals := make([]any, 0, len(model.TimestampFields)+1)
	vals = append(vals, r.DispatchID)
	for _, f := range model.TimestampFields {
		v, ok := r.Fields[f]
		if !ok || !timestamps.Filled(v) {
			vals = append(vals, nil)
			continue
		}
		vals = append(vals, v)
	}
	return vals
}

// recordFrom builds a record from nullable column values in field order.
func recordFrom(vals []*string) model.TimestampRecord {
	rec := make(model.TimestampRecord, len(vals))
	for i, v := range vals {
		if v != nil {
			rec[model.TimestampFields[i]] = *v
		}
	}
	return rec
}

// fieldDests returns scan destinations for the milestone columns.
func fieldDests() ([]*string, []any) {
	vals := make([]*string, len(model.TimestampFields))
	dests := make([]any, len(vals))
	for i := range vals {
		dests[i] = &vals[i]
	}
	return vals, dests
}
