package aggregate

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/freight-kpi/internal/model"
)

// Merge unions src into dst category by category. Counts are never added:
// union keeps deduplication intact across partitions.
func Merge(dst, src model.Aggregates) {
	mergeInto(dst, src)
	finalize(dst)
}

func mergeInto(dst, src model.Aggregates) {
	for identity, s := range src {
		d, ok := dst[identity]
		if !ok {
			d = model.NewProjectAggregate(identity)
			dst[identity] = d
		}
		d.Plan.Union(s.Plan)
		d.Fulfilled.Union(s.Fulfilled)
		d.Cancelled.Union(s.Cancelled)
		d.Fleet.Union(s.Fleet)
		d.Spot.Union(s.Spot)
		d.Printed.Union(s.Printed)
		d.Unprinted.Union(s.Unprinted)
		unionTimed(d.OnTimeByDispatch, s.OnTimeByDispatch)
		unionTimed(d.LateByDispatch, s.LateByDispatch)
		for id, ts := range s.PickupByDispatch {
			if prev, seen := d.PickupByDispatch[id]; !seen || ts.Before(prev) {
				d.PickupByDispatch[id] = ts
			}
		}
	}
}

func unionTimed(dst, src map[string]model.IDSet) {
	for dispatch, reqs := range src {
		for req := range reqs {
			addTimed(dst, dispatch, req)
		}
	}
}

// minChunk keeps tiny batches on a single goroutine.
const minChunk = 512

// AggregateParallel partitions records across up to workers goroutines and
// unions the partial results. The output equals Aggregate(records).
func (a *Aggregator) AggregateParallel(ctx context.Context, records []model.RawRecord, workers int) (model.Aggregates, error) {
	if workers <= 1 || len(records) <= minChunk {
		return a.Aggregate(records), nil
	}
	size := (len(records) + workers - 1) / workers
	if size < minChunk {
		size = minChunk
	}

	var parts []model.Aggregates
	for start := 0; start < len(records); start += size {
		parts = append(parts, nil)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range parts {
		start := i * size
		end := min(start+size, len(records))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return eris.Wrap(err, "aggregate: cancelled")
			}
			parts[i] = a.accumulate(records[start:end])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(model.Aggregates)
	for _, p := range parts {
		mergeInto(out, p)
	}
	finalize(out)
	return out, nil
}
