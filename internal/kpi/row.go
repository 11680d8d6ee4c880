// Package kpi derives display rows, region views and report tables from
// project aggregates.
package kpi

import (
	"math"

	"github.com/sells-group/freight-kpi/internal/model"
)

// BuildRow projects an aggregate into a KpiRow.
func BuildRow(agg *model.ProjectAggregate) model.KpiRow {
	plan := agg.Plan.Len()
	fulfilled := agg.Fulfilled.Len()
	cancelled := agg.Cancelled.Len()
	late := agg.LateRequests.Len()
	unfulfilled := Unfulfilled(plan, fulfilled, cancelled)

	return model.KpiRow{
		Project:        agg.Project,
		Plan:           plan,
		Fulfilled:      fulfilled,
		Unfulfilled:    unfulfilled,
		Cancelled:      cancelled,
		Fleet:          agg.Fleet.Len(),
		Spot:           agg.Spot.Len(),
		Printed:        agg.Printed.Len(),
		Unprinted:      agg.Unprinted.Len(),
		OnTimeCount:    agg.OnTimeRequests.Len(),
		LateCount:      late,
		PerformancePct: PerformancePct(plan, unfulfilled),
		OnTimePct:      OnTimePct(plan, fulfilled, late),
	}
}

// Unfulfilled is the demand not covered by a fulfillment or cancellation,
// floored at zero.
func Unfulfilled(plan, fulfilled, cancelled int) int {
	return max(0, plan-(fulfilled+cancelled))
}

// PerformancePct is the coverage rate 100 - unfulfilled/plan*100, clamped to
// [0, 100] and rounded. An empty plan scores 0.
func PerformancePct(plan, unfulfilled int) int {
	if plan == 0 {
		return 0
	}
	return percent(100 - float64(unfulfilled)/float64(plan)*100)
}

// OnTimePct counts only fulfillments that were not late against the plan.
func OnTimePct(plan, fulfilled, late int) int {
	if plan == 0 {
		return 0
	}
	return percent(float64(fulfilled-late) / float64(plan) * 100)
}

func percent(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Max(0, math.Min(100, v))
	return int(math.Floor(v + 0.5))
}
