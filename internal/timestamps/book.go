package timestamps

import (
	"sort"
	"sync"

	"github.com/sells-group/freight-kpi/internal/model"
	"github.com/sells-group/freight-kpi/internal/normalize"
)

// Book is the in-memory map of dispatch identifier to merged milestones.
// It is safe for concurrent use.
type Book struct {
	mu         sync.RWMutex
	dispatcher *normalize.Dispatcher
	records    map[string]model.TimestampRecord
}

// NewBook returns an empty Book that keys rows by d's normalization. A nil
// dispatcher uses the default prefix.
func NewBook(d *normalize.Dispatcher) *Book {
	if d == nil {
		d = normalize.NewDispatcher("")
	}
	return &Book{dispatcher: d, records: make(map[string]model.TimestampRecord)}
}

// Merge folds rec into the entry for dispatchID with keep-filled semantics
// and returns the merged record. Blank identifiers are ignored.
func (b *Book) Merge(dispatchID string, rec model.TimestampRecord) model.TimestampRecord {
	key := b.dispatcher.Normalize(dispatchID)
	if key == "" {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	merged := MergeRecord(b.records[key], rec)
	b.records[key] = merged
	return cloneRecord(merged)
}

// MergeAll merges rows in order.
func (b *Book) MergeAll(rows []model.ExternalTimestamps) {
	for _, r := range rows {
		b.Merge(r.DispatchID, r.Fields)
	}
}

// Get returns a copy of the record for dispatchID.
func (b *Book) Get(dispatchID string) (model.TimestampRecord, bool) {
	key := b.dispatcher.Normalize(dispatchID)

	b.mu.RLock()
	defer b.mu.RUnlock()
	rec, ok := b.records[key]
	if !ok {
		return nil, false
	}
	return cloneRecord(rec), true
}

// Len returns the number of dispatches held.
func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.records)
}

// Snapshot returns every entry sorted by dispatch identifier.
func (b *Book) Snapshot() []model.ExternalTimestamps {
	b.mu.RLock()
	out := make([]model.ExternalTimestamps, 0, len(b.records))
	for id, rec := range b.records {
		out = append(out, model.ExternalTimestamps{DispatchID: id, Fields: cloneRecord(rec)})
	}
	b.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].DispatchID < out[j].DispatchID })
	return out
}

func cloneRecord(rec model.TimestampRecord) model.TimestampRecord {
	out := make(model.TimestampRecord, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
