package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/freight-kpi/internal/ingest"
	"github.com/sells-group/freight-kpi/internal/model"
	"github.com/sells-group/freight-kpi/internal/tabular"
)

// maxConcurrentLoads bounds parallel file reads.
const maxConcurrentLoads = 4

// LoadRecords reads record files concurrently and concatenates them in the
// given order. JSON files hold an array of record objects; every other
// location goes through the tabular reader.
func LoadRecords(ctx context.Context, locations []string, opts tabular.Options) ([]model.RawRecord, error) {
	parts := make([][]model.RawRecord, len(locations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, loc := range locations {
		g.Go(func() error {
			recs, err := loadOne(gctx, loc, opts)
			if err != nil {
				return eris.Wrapf(err, "engine: load %s", loc)
			}
			parts[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []model.RawRecord
	for i, p := range parts {
		zap.L().Debug("engine: loaded records", zap.String("source", locations[i]), zap.Int("records", len(p)))
		out = append(out, p...)
	}
	return out, nil
}

func loadOne(ctx context.Context, location string, opts tabular.Options) ([]model.RawRecord, error) {
	if isJSON(location) {
		f, err := os.Open(location)
		if err != nil {
			return nil, eris.Wrap(err, "engine: open json")
		}
		defer f.Close() //nolint:errcheck
		return ingest.DecodeJSON(f)
	}
	table, err := tabular.Load(ctx, location, opts)
	if err != nil {
		return nil, err
	}
	return ingest.FromTable(table)
}

func isJSON(location string) bool {
	if strings.HasPrefix(strings.ToLower(location), "ftp://") {
		return false
	}
	return strings.EqualFold(filepath.Ext(location), ".json")
}
