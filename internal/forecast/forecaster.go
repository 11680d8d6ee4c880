package forecast

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/freight-kpi/internal/model"
)

// Options configures a Forecaster.
type Options struct {
	Algorithm string // AlgorithmBlended (default) or AlgorithmWindow
	Months    int
	MinBase   float64
	Location  *time.Location
}

// Forecaster turns project aggregates into forecast rows relative to a
// reference time.
type Forecaster struct {
	opts Options
}

// New returns a Forecaster with defaults applied.
func New(opts Options) *Forecaster {
	if opts.Algorithm != AlgorithmWindow {
		opts.Algorithm = AlgorithmBlended
	}
	if opts.Months <= 0 {
		opts.Months = DefaultMonths
	}
	if opts.MinBase <= 0 {
		opts.MinBase = DefaultMinBase
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Forecaster{opts: opts}
}

// Algorithm returns the configured algorithm name.
func (f *Forecaster) Algorithm() string {
	return f.opts.Algorithm
}

// Project forecasts one project's pickups.
func (f *Forecaster) Project(project string, pickups []time.Time, ref time.Time) model.ForecastRow {
	h := BuildHistory(pickups, ref, f.opts.Months, f.opts.Location)
	if f.opts.Algorithm == AlgorithmWindow {
		return WindowCount(project, pickups, ref, h, f.opts.MinBase)
	}
	return BlendedTrend(project, h.Months, h.Previous, f.opts.MinBase)
}

// All forecasts every aggregate.
func (f *Forecaster) All(aggs model.Aggregates, ref time.Time) map[string]model.ForecastRow {
	out := make(map[string]model.ForecastRow, len(aggs))
	for identity, agg := range aggs {
		out[identity] = f.Project(identity, agg.PickupTimestamps, ref)
	}
	zap.L().Debug("forecast: computed",
		zap.String("algorithm", f.opts.Algorithm),
		zap.Int("projects", len(out)),
		zap.Time("reference", ref),
	)
	return out
}

// Sorted returns rows ordered by project name.
func Sorted(rows map[string]model.ForecastRow) []model.ForecastRow {
	out := make([]model.ForecastRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Project < out[j].Project })
	return out
}
