package timestamps

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/freight-kpi/internal/model"
	"github.com/sells-group/freight-kpi/internal/normalize"
)

// ImportRows converts a table whose first row is the header into timestamp
// rows keyed by normalized dispatch identifier. Rows without a dispatch
// identifier are skipped. Blank cells are left out of the record.
func ImportRows(table [][]string, d *normalize.Dispatcher) ([]model.ExternalTimestamps, error) {
	if len(table) == 0 {
		return nil, nil
	}
	if d == nil {
		d = normalize.NewDispatcher("")
	}
	cols, err := ResolveHeader(table[0])
	if err != nil {
		return nil, err
	}

	out := make([]model.ExternalTimestamps, 0, len(table)-1)
	skipped := 0
	for _, row := range table[1:] {
		id := d.Normalize(cell(row, cols.Dispatch))
		if id == "" {
			skipped++
			continue
		}
		rec := make(model.TimestampRecord, len(cols.Fields))
		for f, idx := range cols.Fields {
			if v := strings.TrimSpace(cell(row, idx)); v != "" {
				rec[f] = v
			}
		}
		out = append(out, model.ExternalTimestamps{DispatchID: id, Fields: rec})
	}

	zap.L().Debug("timestamps: imported rows",
		zap.Int("rows", len(out)),
		zap.Int("skipped", skipped),
		zap.Int("fields", len(cols.Fields)),
	)
	return out, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
