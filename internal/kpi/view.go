package kpi

import (
	"sort"
	"strings"

	"github.com/sells-group/freight-kpi/internal/model"
	"github.com/sells-group/freight-kpi/internal/normalize"
	"github.com/sells-group/freight-kpi/internal/project"
)

// SortKey orders rows in a view. Every key sorts descending.
type SortKey string

const (
	SortCatalog     SortKey = ""
	SortPerformance SortKey = "performance"
	SortPlan        SortKey = "plan"
	SortLate        SortKey = "late"
)

// ParseSortKey maps a request value to a SortKey; unknown values keep
// catalog order.
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortPerformance:
		return SortPerformance
	case SortPlan:
		return SortPlan
	case SortLate:
		return SortLate
	}
	return SortCatalog
}

// Filter narrows the rows of a view.
type Filter struct {
	Query           string `json:"query,omitempty"`
	LateOnly        bool   `json:"late_only,omitempty"`
	UnfulfilledOnly bool   `json:"unfulfilled_only,omitempty"`
}

// Match reports whether row passes every predicate.
func (f Filter) Match(row model.KpiRow) bool {
	if q := normalize.Text(f.Query); q != "" && !strings.Contains(row.Project, q) {
		return false
	}
	if f.LateOnly && row.LateCount == 0 {
		return false
	}
	if f.UnfulfilledOnly && row.Unfulfilled == 0 {
		return false
	}
	return true
}

// ViewOptions combines a filter with a sort key.
type ViewOptions struct {
	Filter Filter
	Sort   SortKey
}

// RegionView returns the rows of one region in catalog order, skipping
// projects without demand, then filters and sorts them. Equal sort keys keep
// catalog order.
func RegionView(c *project.Catalog, aggs model.Aggregates, region string, opts ViewOptions) []model.KpiRow {
	r, ok := c.Region(region)
	if !ok {
		return nil
	}
	return finish(regionRows(r, aggs), opts)
}

// GlobalView concatenates every region in catalog order before filtering and
// sorting.
func GlobalView(c *project.Catalog, aggs model.Aggregates, opts ViewOptions) []model.KpiRow {
	var rows []model.KpiRow
	for _, r := range c.Regions {
		rows = append(rows, regionRows(r, aggs)...)
	}
	return finish(rows, opts)
}

func regionRows(r project.Region, aggs model.Aggregates) []model.KpiRow {
	var rows []model.KpiRow
	for _, p := range r.Projects {
		agg, ok := aggs[p]
		if !ok || agg.Plan.Len() == 0 {
			continue
		}
		row := BuildRow(agg)
		row.Region = r.Name
		rows = append(rows, row)
	}
	return rows
}

func finish(rows []model.KpiRow, opts ViewOptions) []model.KpiRow {
	out := rows[:0]
	for _, row := range rows {
		if opts.Filter.Match(row) {
			out = append(out, row)
		}
	}
	Sort(out, opts.Sort)
	return out
}

// Sort orders rows in place by key, descending and stable.
func Sort(rows []model.KpiRow, key SortKey) {
	var value func(model.KpiRow) int
	switch key {
	case SortPerformance:
		value = func(r model.KpiRow) int { return r.PerformancePct }
	case SortPlan:
		value = func(r model.KpiRow) int { return r.Plan }
	case SortLate:
		value = func(r model.KpiRow) int { return r.LateCount }
	default:
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return value(rows[i]) > value(rows[j])
	})
}
