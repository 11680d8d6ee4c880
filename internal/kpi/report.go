package kpi

import (
	"github.com/sells-group/freight-kpi/internal/model"
	"github.com/sells-group/freight-kpi/internal/project"
)

// TotalsLabel names the closing row of a report table.
const TotalsLabel = "TOPLAM"

// ReportColumns is the fixed column order of exported tables.
var ReportColumns = []string{
	"project", "demand", "fulfilled", "unfulfilled", "late",
	"fleet", "spot", "printed", "unprinted", "performance_pct",
}

// ReportRow carries raw numbers; the exporter applies its own formatting
// and thresholds.
type ReportRow struct {
	Project        string `json:"project" csv:"project"`
	Demand         int    `json:"demand" csv:"demand"`
	Fulfilled      int    `json:"fulfilled" csv:"fulfilled"`
	Unfulfilled    int    `json:"unfulfilled" csv:"unfulfilled"`
	Late           int    `json:"late" csv:"late"`
	Fleet          int    `json:"fleet" csv:"fleet"`
	Spot           int    `json:"spot" csv:"spot"`
	Printed        int    `json:"printed" csv:"printed"`
	Unprinted      int    `json:"unprinted" csv:"unprinted"`
	PerformancePct int    `json:"performance_pct" csv:"performance_pct"`
}

// Values returns the row in ReportColumns order.
func (r ReportRow) Values() []any {
	return []any{
		r.Project, r.Demand, r.Fulfilled, r.Unfulfilled, r.Late,
		r.Fleet, r.Spot, r.Printed, r.Unprinted, r.PerformancePct,
	}
}

// Table is one region's export: header, one row per project and totals.
type Table struct {
	Region  string      `json:"region"`
	Columns []string    `json:"columns"`
	Rows    []ReportRow `json:"rows"`
	Totals  ReportRow   `json:"totals"`
}

// Cells flattens the table into header, project rows and totals.
func (t Table) Cells() [][]any {
	out := make([][]any, 0, len(t.Rows)+2)
	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	out = append(out, header)
	for _, r := range t.Rows {
		out = append(out, r.Values())
	}
	return append(out, t.Totals.Values())
}

// FromKpiRow converts a view row to a report row.
func FromKpiRow(row model.KpiRow) ReportRow {
	return ReportRow{
		Project:        row.Project,
		Demand:         row.Plan,
		Fulfilled:      row.Fulfilled,
		Unfulfilled:    row.Unfulfilled,
		Late:           row.LateCount,
		Fleet:          row.Fleet,
		Spot:           row.Spot,
		Printed:        row.Printed,
		Unprinted:      row.Unprinted,
		PerformancePct: row.PerformancePct,
	}
}

// BuildTable assembles a table from view rows. Totals sum the columns and
// recompute performance from the summed demand.
func BuildTable(region string, rows []model.KpiRow) Table {
	t := Table{Region: region, Columns: ReportColumns, Rows: make([]ReportRow, 0, len(rows))}
	total := ReportRow{Project: TotalsLabel}
	for _, row := range rows {
		r := FromKpiRow(row)
		t.Rows = append(t.Rows, r)
		total.Demand += r.Demand
		total.Fulfilled += r.Fulfilled
		total.Unfulfilled += r.Unfulfilled
		total.Late += r.Late
		total.Fleet += r.Fleet
		total.Spot += r.Spot
		total.Printed += r.Printed
		total.Unprinted += r.Unprinted
	}
	total.PerformancePct = PerformancePct(total.Demand, total.Unfulfilled)
	t.Totals = total
	return t
}

// ReportTables builds one table per region in catalog order. Regions with
// no rows are included so the exporter keeps a stable sheet layout.
func ReportTables(c *project.Catalog, aggs model.Aggregates, opts ViewOptions) []Table {
	tables := make([]Table, 0, len(c.Regions))
	for _, name := range c.RegionNames() {
		tables = append(tables, BuildTable(name, RegionView(c, aggs, name, opts)))
	}
	return tables
}
