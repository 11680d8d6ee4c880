package ingest

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/freight-kpi/internal/model"
)

// FromTable converts a table whose first row is the header into records.
// Headers match the JSON keys or their Turkish labels, case and spacing
// insensitively. Unknown columns are ignored; a table without a project
// column is rejected. Blank cells leave loose fields nil.
func FromTable(table [][]string) ([]model.RawRecord, error) {
	if len(table) == 0 {
		return nil, nil
	}
	cols := make(map[int]field)
	seen := make(map[field]bool)
	for i, h := range table[0] {
		f, ok := aliasIndex[foldHeader(h)]
		if !ok || seen[f] {
			continue
		}
		seen[f] = true
		cols[i] = f
	}
	if !seen[fProjectName] {
		return nil, eris.New("ingest: table has no project column")
	}

	out := make([]model.RawRecord, 0, len(table)-1)
	for _, row := range table[1:] {
		if blankRow(row) {
			continue
		}
		var rec model.RawRecord
		for i, f := range cols {
			if i >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[i])
			if looseFields[f] {
				if cell != "" {
					set(&rec, f, "", cell)
				}
				continue
			}
			set(&rec, f, cell, nil)
		}
		out = append(out, rec)
	}
	zap.L().Debug("ingest: converted table",
		zap.Int("records", len(out)),
		zap.Int("columns", len(cols)),
	)
	return out, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
