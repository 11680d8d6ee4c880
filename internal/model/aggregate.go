package model

import (
	"sort"
	"time"
)

// IDSet is a set of normalized document identifiers.
type IDSet map[string]struct{}

// NewIDSet returns a set holding ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id. Adding an existing id is a no-op.
func (s IDSet) Add(id string) {
	s[id] = struct{}{}
}

// Has reports whether id is a member.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of members.
func (s IDSet) Len() int {
	return len(s)
}

// Union adds every member of other to s.
func (s IDSet) Union(other IDSet) {
	for id := range other {
		s[id] = struct{}{}
	}
}

// Remove deletes id. Removing a missing id is a no-op.
func (s IDSet) Remove(id string) {
	delete(s, id)
}

// Sorted returns the members in ascending order.
func (s IDSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ProjectAggregate holds the categorical identifier sets collected for one
// project over an evaluation window.
type ProjectAggregate struct {
	Project          string      `json:"project"`
	Plan             IDSet       `json:"-"`
	Fulfilled        IDSet       `json:"-"`
	Cancelled        IDSet       `json:"-"`
	Fleet            IDSet       `json:"-"`
	Spot             IDSet       `json:"-"`
	Printed          IDSet       `json:"-"`
	Unprinted        IDSet       `json:"-"`
	OnTimeRequests   IDSet       `json:"-"`
	LateRequests     IDSet       `json:"-"`
	PickupTimestamps []time.Time `json:"-"`

	// PickupByDispatch keeps the earliest pickup per fulfilled dispatch so
	// duplicate rows contribute one timestamp.
	PickupByDispatch map[string]time.Time `json:"-"`

	// OnTimeByDispatch and LateByDispatch hold the requests each dispatch
	// classified. OnTimeRequests and LateRequests are rebuilt from them
	// without cancelled dispatches.
	OnTimeByDispatch map[string]IDSet `json:"-"`
	LateByDispatch   map[string]IDSet `json:"-"`
}

// NewProjectAggregate returns an empty aggregate for project.
func NewProjectAggregate(project string) *ProjectAggregate {
	return &ProjectAggregate{
		Project:          project,
		Plan:             IDSet{},
		Fulfilled:        IDSet{},
		Cancelled:        IDSet{},
		Fleet:            IDSet{},
		Spot:             IDSet{},
		Printed:          IDSet{},
		Unprinted:        IDSet{},
		OnTimeRequests:   IDSet{},
		LateRequests:     IDSet{},
		PickupByDispatch: map[string]time.Time{},
		OnTimeByDispatch: map[string]IDSet{},
		LateByDispatch:   map[string]IDSet{},
	}
}

// Aggregates maps a canonical project identity to its aggregate.
type Aggregates map[string]*ProjectAggregate
