// Package engine wires the catalog, aggregator, forecaster and timestamp
// book into the operations the CLI and the JSON feed call.
package engine

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/freight-kpi/internal/aggregate"
	"github.com/sells-group/freight-kpi/internal/config"
	"github.com/sells-group/freight-kpi/internal/forecast"
	"github.com/sells-group/freight-kpi/internal/kpi"
	"github.com/sells-group/freight-kpi/internal/model"
	"github.com/sells-group/freight-kpi/internal/normalize"
	"github.com/sells-group/freight-kpi/internal/project"
	"github.com/sells-group/freight-kpi/internal/store"
	"github.com/sells-group/freight-kpi/internal/timestamps"
	"github.com/sells-group/freight-kpi/internal/timing"
)

// Engine evaluates record batches against the current catalog. It is safe
// for concurrent use; the catalog may be swapped underneath it by the
// holder's watcher.
type Engine struct {
	catalog    *project.Holder
	opts       aggregate.Options
	workers    int
	location   *time.Location
	forecaster *forecast.Forecaster
	dispatcher *normalize.Dispatcher
	book       *timestamps.Book
	store      store.Store
}

// New builds an Engine from configuration. st may be nil, in which case
// imported timestamps live in memory only.
func New(cfg *config.Config, holder *project.Holder, st store.Store) *Engine {
	loc := timing.LoadLocation(cfg.Engine.Timezone)
	classifier := timing.NewClassifier(cfg.Engine.LateThreshold(), loc)
	dispatcher := normalize.NewDispatcher(cfg.Engine.DispatchPrefix)

	workers := cfg.Engine.Workers
	if workers < 1 {
		workers = 1
	}

	return &Engine{
		catalog: holder,
		opts: aggregate.Options{
			DispatchPrefix:      cfg.Engine.DispatchPrefix,
			CancelStatus:        cfg.Engine.CancelStatus,
			PlaceholderPrefixes: cfg.Engine.PlaceholderPrefixes,
			FleetModes:          cfg.Engine.FleetModes,
			Services:            cfg.Engine.Services,
			Classifier:          classifier,
		},
		workers:  workers,
		location: loc,
		forecaster: forecast.New(forecast.Options{
			Algorithm: cfg.Forecast.Algorithm,
			Months:    cfg.Forecast.Months,
			MinBase:   cfg.Forecast.MinBase,
			Location:  loc,
		}),
		dispatcher: dispatcher,
		book:       timestamps.NewBook(dispatcher),
		store:      st,
	}
}

// Catalog returns the catalog currently in effect.
func (e *Engine) Catalog() *project.Catalog {
	return e.catalog.Catalog()
}

// Location returns the zone used to read naive timestamps.
func (e *Engine) Location() *time.Location {
	return e.location
}

// Snapshot pins one evaluation to the catalog it was computed with so that
// a concurrent reload cannot mix region layouts.
type Snapshot struct {
	Catalog    *project.Catalog
	Aggregates model.Aggregates
	Records    int
}

// Evaluate aggregates records under the optional window.
func (e *Engine) Evaluate(ctx context.Context, records []model.RawRecord, w aggregate.Window) (*Snapshot, error) {
	c := e.catalog.Catalog()
	if c == nil {
		return nil, eris.New("engine: no catalog loaded")
	}
	opts := e.opts
	opts.Window = w
	agg := aggregate.New(project.NewResolver(c), opts)

	aggs, err := agg.AggregateParallel(ctx, records, e.workers)
	if err != nil {
		return nil, eris.Wrap(err, "engine: aggregate")
	}
	zap.L().Debug("engine: evaluated",
		zap.Int("records", len(records)),
		zap.Int("projects", len(aggs)),
	)
	return &Snapshot{Catalog: c, Aggregates: aggs, Records: len(records)}, nil
}

// Regions lists region names in catalog order.
func (s *Snapshot) Regions() []string {
	return s.Catalog.RegionNames()
}

// Region returns the KPI rows of one region. ok is false when the region
// does not exist.
func (s *Snapshot) Region(region string, opts kpi.ViewOptions) ([]model.KpiRow, bool) {
	if _, ok := s.Catalog.Region(region); !ok {
		return nil, false
	}
	return kpi.RegionView(s.Catalog, s.Aggregates, region, opts), true
}

// Global returns the KPI rows of every region.
func (s *Snapshot) Global(opts kpi.ViewOptions) []model.KpiRow {
	return kpi.GlobalView(s.Catalog, s.Aggregates, opts)
}

// Report returns one exporter table per region.
func (s *Snapshot) Report(opts kpi.ViewOptions) []kpi.Table {
	return kpi.ReportTables(s.Catalog, s.Aggregates, opts)
}

// Forecast computes forecast rows for every project in the snapshot. A
// zero ref uses the current time.
func (e *Engine) Forecast(s *Snapshot, ref time.Time) map[string]model.ForecastRow {
	if ref.IsZero() {
		ref = time.Now().In(e.location)
	}
	return e.forecaster.All(s.Aggregates, ref)
}

// ForecastAlgorithm returns the configured forecast algorithm.
func (e *Engine) ForecastAlgorithm() string {
	return e.forecaster.Algorithm()
}
