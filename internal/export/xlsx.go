package export

import (
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/freight-kpi/internal/kpi"
)

// ARGB fills per tier.
var tierColors = map[Tier]string{
	TierGood: "FFC6EFCE",
	TierWarn: "FFFFEB9C",
	TierBad:  "FFFFC7CE",
}

const maxSheetName = 31

// BuildXLSX lays out one sheet per table with a bold header, numeric cells
// and tier fills on threshold columns.
func BuildXLSX(tables []kpi.Table, th Thresholds) (*xlsx.File, error) {
	f := xlsx.NewFile()
	styles := tierStyles()
	header := xlsx.NewStyle()
	header.Font.Bold = true
	header.ApplyFont = true

	used := make(map[string]bool)
	for _, t := range tables {
		sheet, err := f.AddSheet(sheetName(t.Region, used))
		if err != nil {
			return nil, eris.Wrapf(err, "export: add sheet %q", t.Region)
		}

		row := sheet.AddRow()
		for _, c := range t.Columns {
			cell := row.AddCell()
			cell.SetString(c)
			cell.SetStyle(header)
		}

		for _, r := range append(append([]kpi.ReportRow(nil), t.Rows...), t.Totals) {
			row := sheet.AddRow()
			for i, v := range r.Values() {
				cell := row.AddCell()
				switch x := v.(type) {
				case int:
					cell.SetInt(x)
					if s, ok := styles[th.Classify(t.Columns[i], x)]; ok {
						cell.SetStyle(s)
					}
				case string:
					cell.SetString(x)
				}
			}
		}
	}
	return f, nil
}

// WriteXLSX writes the workbook to w.
func WriteXLSX(w io.Writer, tables []kpi.Table, th Thresholds) error {
	f, err := BuildXLSX(tables, th)
	if err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}

// SaveXLSX writes the workbook to path.
func SaveXLSX(path string, tables []kpi.Table, th Thresholds) error {
	f, err := BuildXLSX(tables, th)
	if err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "export: save xlsx")
	}
	return nil
}

func tierStyles() map[Tier]*xlsx.Style {
	out := make(map[Tier]*xlsx.Style, len(tierColors))
	for tier, color := range tierColors {
		s := xlsx.NewStyle()
		s.Fill = *xlsx.NewFill("solid", color, color)
		s.ApplyFill = true
		out[tier] = s
	}
	return out
}

// sheetName strips characters Excel rejects, truncates to 31 runes and
// de-duplicates.
func sheetName(region string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(region))
	if name == "" {
		name = "Sheet"
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	base := []rune(name)
	for n := 2; used[name]; n++ {
		suffix := []rune(" " + strconv.Itoa(n))
		keep := min(len(base), maxSheetName-len(suffix))
		name = string(base[:keep]) + string(suffix)
	}
	used[name] = true
	return name
}
