// Package aggregate folds raw records into per-project identifier sets.
package aggregate

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/freight-kpi/internal/coerce"
	"github.com/sells-group/freight-kpi/internal/model"
	"github.com/sells-group/freight-kpi/internal/normalize"
	"github.com/sells-group/freight-kpi/internal/project"
	"github.com/sells-group/freight-kpi/internal/timing"
)

// DefaultCancelStatus is the lifecycle code of a cancelled dispatch.
const DefaultCancelStatus = 9

// Window restricts aggregation to records dated in [From, To). A zero bound
// is open.
type Window struct {
	From time.Time
	To   time.Time
}

// IsZero reports whether the window has no bounds.
func (w Window) IsZero() bool {
	return w.From.IsZero() && w.To.IsZero()
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && !t.Before(w.To) {
		return false
	}
	return true
}

// Options configures the in-scope filters and category rules.
type Options struct {
	DispatchPrefix      string
	CancelStatus        int
	PlaceholderPrefixes []string
	FleetModes          []string
	Services            []string // empty accepts every service
	Classifier          *timing.Classifier
	Window              Window
}

// Aggregator applies Options to record batches. It holds no per-batch state
// and may be reused.
type Aggregator struct {
	resolver     *project.Resolver
	dispatcher   *normalize.Dispatcher
	classifier   *timing.Classifier
	cancelStatus int
	placeholders []string
	fleet        map[string]bool
	services     map[string]bool
	window       Window
}

// New builds an Aggregator over resolver.
func New(resolver *project.Resolver, opts Options) *Aggregator {
	a := &Aggregator{
		resolver:     resolver,
		dispatcher:   normalize.NewDispatcher(opts.DispatchPrefix),
		classifier:   opts.Classifier,
		cancelStatus: opts.CancelStatus,
		placeholders: opts.PlaceholderPrefixes,
		fleet:        make(map[string]bool, len(opts.FleetModes)),
		services:     make(map[string]bool, len(opts.Services)),
		window:       opts.Window,
	}
	if a.classifier == nil {
		a.classifier = timing.NewClassifier(timing.DefaultThreshold, timing.DefaultZone)
	}
	if a.cancelStatus == 0 {
		a.cancelStatus = DefaultCancelStatus
	}
	for _, m := range opts.FleetModes {
		a.fleet[normalize.Text(m)] = true
	}
	for _, s := range opts.Services {
		a.services[normalize.Text(s)] = true
	}
	return a
}

// Aggregate folds records into a fresh map keyed by project identity. The
// result does not depend on record order, and repeated records contribute
// once per set.
func (a *Aggregator) Aggregate(records []model.RawRecord) model.Aggregates {
	out := a.accumulate(records)
	finalize(out)
	return out
}

type skipCounts struct {
	scope, service, window int
}

func (a *Aggregator) accumulate(records []model.RawRecord) model.Aggregates {
	out := make(model.Aggregates)
	var skipped skipCounts
	for i := range records {
		a.add(out, &records[i], &skipped)
	}
	if skipped != (skipCounts{}) {
		zap.L().Debug("aggregate: records skipped",
			zap.Int("out_of_scope", skipped.scope),
			zap.Int("service", skipped.service),
			zap.Int("window", skipped.window),
		)
	}
	return out
}

func (a *Aggregator) add(out model.Aggregates, rec *model.RawRecord, skipped *skipCounts) {
	identity, ok := a.resolver.Resolve(*rec)
	if !ok {
		skipped.scope++
		return
	}
	if len(a.services) > 0 && !a.services[normalize.Text(rec.ServiceName)] {
		skipped.service++
		return
	}
	if !a.window.IsZero() && !a.inWindow(rec) {
		skipped.window++
		return
	}

	agg, exists := out[identity]
	if !exists {
		agg = model.NewProjectAggregate(identity)
		out[identity] = agg
	}

	request := normalize.RequestID(rec.RequestID)
	validRequest := request != "" && !normalize.HasAnyPrefix(request, a.placeholders)
	if validRequest {
		agg.Plan.Add(request)
	}

	dispatch := a.dispatcher.Normalize(rec.DispatchID)
	if !a.dispatcher.IsFulfillment(dispatch) {
		return
	}
	if status, ok := coerce.ToInt(rec.StatusCode); ok && status == a.cancelStatus {
		agg.Cancelled.Add(dispatch)
		return
	}

	agg.Fulfilled.Add(dispatch)
	if a.fleet[normalize.Text(rec.VehicleWorkingMode)] {
		agg.Fleet.Add(dispatch)
	} else {
		agg.Spot.Add(dispatch)
	}
	if coerce.Truthy(rec.IsPrinted) {
		agg.Printed.Add(dispatch)
	} else {
		agg.Unprinted.Add(dispatch)
	}

	res := a.classifier.Classify(rec.DispatchOpenedAt, rec.PickupAt)
	if validRequest {
		switch res.Status {
		case timing.OnTime:
			addTimed(agg.OnTimeByDispatch, dispatch, request)
		case timing.Late:
			addTimed(agg.LateByDispatch, dispatch, request)
		}
	}
	if pickup, ok := timing.Parse(rec.PickupAt, a.classifier.Location); ok {
		if prev, seen := agg.PickupByDispatch[dispatch]; !seen || pickup.Before(prev) {
			agg.PickupByDispatch[dispatch] = pickup
		}
	}
}

func addTimed(m map[string]model.IDSet, dispatch, request string) {
	set, ok := m[dispatch]
	if !ok {
		set = model.IDSet{}
		m[dispatch] = set
	}
	set.Add(request)
}

// timedRequests unions the requests of every dispatch in m.
func timedRequests(m map[string]model.IDSet) model.IDSet {
	out := model.IDSet{}
	for _, reqs := range m {
		out.Union(reqs)
	}
	return out
}

// inWindow dates a record by order creation, falling back to pickup. Undated
// records fall outside any bounded window.
func (a *Aggregator) inWindow(rec *model.RawRecord) bool {
	t, ok := timing.Parse(rec.OrderCreatedAt, a.classifier.Location)
	if !ok {
		t, ok = timing.Parse(rec.PickupAt, a.classifier.Location)
	}
	return ok && a.window.Contains(t)
}

// finalize resolves conflicts that duplicate rows can introduce and derives
// the pickup timestamp list. Every step is order independent:
//   - a cancelled dispatch is never fulfilled and times no request
//   - fleet wins over spot, printed wins over unprinted
func finalize(aggs model.Aggregates) {
	for _, agg := range aggs {
		for id := range agg.Cancelled {
			agg.Fulfilled.Remove(id)
			agg.Fleet.Remove(id)
			agg.Spot.Remove(id)
			agg.Printed.Remove(id)
			agg.Unprinted.Remove(id)
			delete(agg.PickupByDispatch, id)
			delete(agg.OnTimeByDispatch, id)
			delete(agg.LateByDispatch, id)
		}
		agg.OnTimeRequests = timedRequests(agg.OnTimeByDispatch)
		agg.LateRequests = timedRequests(agg.LateByDispatch)
		for id := range agg.Fleet {
			agg.Spot.Remove(id)
		}
		for id := range agg.Printed {
			agg.Unprinted.Remove(id)
		}

		agg.PickupTimestamps = agg.PickupTimestamps[:0]
		for _, ts := range agg.PickupByDispatch {
			agg.PickupTimestamps = append(agg.PickupTimestamps, ts)
		}
		sort.Slice(agg.PickupTimestamps, func(i, j int) bool {
			return agg.PickupTimestamps[i].Before(agg.PickupTimestamps[j])
		})
	}
}
