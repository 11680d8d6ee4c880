package engine

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/freight-kpi/internal/model"
	"github.com/sells-group/freight-kpi/internal/store"
	"github.com/sells-group/freight-kpi/internal/timestamps"
)

// ImportTimestamps merges a timestamp table into the book and, when a store
// is configured, persists the merge and logs the import.
func (e *Engine) ImportTimestamps(ctx context.Context, source string, table [][]string) (*store.ImportRun, error) {
	rows, err := timestamps.ImportRows(table, e.dispatcher)
	if err != nil {
		return nil, eris.Wrap(err, "engine: import timestamps")
	}
	dataRows := 0
	if len(table) > 0 {
		dataRows = len(table) - 1
	}
	return e.MergeTimestamps(ctx, source, rows, dataRows-len(rows))
}

// MergeTimestamps merges already keyed rows. skipped counts input rows the
// caller dropped before the merge. Merged counts distinct dispatches.
func (e *Engine) MergeTimestamps(ctx context.Context, source string, rows []model.ExternalTimestamps, skipped int) (*store.ImportRun, error) {
	var clean []model.ExternalTimestamps
	distinct := make(map[string]bool)
	for _, r := range rows {
		id := e.dispatcher.Normalize(r.DispatchID)
		if id == "" {
			skipped++
			continue
		}
		distinct[id] = true
		clean = append(clean, model.ExternalTimestamps{DispatchID: id, Fields: r.Fields})
	}
	e.book.MergeAll(clean)

	run := store.ImportRun{Source: source, Rows: len(clean) + skipped, Merged: len(distinct), Skipped: skipped}
	if e.store == nil {
		return &run, nil
	}

	merged, err := e.store.MergeTimestamps(ctx, clean)
	if err != nil {
		return nil, eris.Wrap(err, "engine: persist timestamps")
	}
	run.Merged = merged
	saved, err := e.store.RecordImport(ctx, run)
	if err != nil {
		return nil, eris.Wrap(err, "engine: record import")
	}
	zap.L().Info("engine: timestamps imported",
		zap.String("source", source),
		zap.Int("rows", saved.Rows),
		zap.Int("merged", saved.Merged),
		zap.Int("skipped", saved.Skipped),
	)
	return saved, nil
}

// DispatchKey returns the normalized key timestamps are stored under.
func (e *Engine) DispatchKey(dispatchID string) string {
	return e.dispatcher.Normalize(dispatchID)
}

// ListTimestamps returns every merged entry sorted by dispatch id, from the
// store when configured and from the in-memory book otherwise.
func (e *Engine) ListTimestamps(ctx context.Context) ([]model.ExternalTimestamps, error) {
	if e.store == nil {
		return e.book.Snapshot(), nil
	}
	rows, err := e.store.ListTimestamps(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "engine: list timestamps")
	}
	return rows, nil
}

// Timestamps returns the merged milestones for a dispatch. The store is
// authoritative when configured; otherwise the in-memory book answers.
func (e *Engine) Timestamps(ctx context.Context, dispatchID string) (model.TimestampRecord, bool, error) {
	id := e.DispatchKey(dispatchID)
	if id == "" {
		return nil, false, nil
	}
	if e.store == nil {
		rec, ok := e.book.Get(id)
		return rec, ok, nil
	}
	rec, err := e.store.GetTimestamps(ctx, id)
	if err != nil {
		return nil, false, eris.Wrap(err, "engine: get timestamps")
	}
	return rec, rec != nil, nil
}

// Imports lists recent import runs. Without a store there is no log.
func (e *Engine) Imports(ctx context.Context, limit int) ([]store.ImportRun, error) {
	if e.store == nil {
		return nil, nil
	}
	runs, err := e.store.ListImports(ctx, limit)
	if err != nil {
		return nil, eris.Wrap(err, "engine: list imports")
	}
	return runs, nil
}
