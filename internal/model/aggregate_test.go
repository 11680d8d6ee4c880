package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIDSet_AddIsIdempotent(t *testing.T) {
	s := NewIDSet("SFR1", "SFR1", "SFR2")
	s.Add("SFR2")

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has("SFR1"))
	assert.False(t, s.Has("SFR3"))
}

func TestIDSet_UnionAndRemove(t *testing.T) {
	a := NewIDSet("VP1", "VP2")
	b := NewIDSet("VP2", "VP3")

	a.Union(b)
	assert.Equal(t, []string{"VP1", "VP2", "VP3"}, a.Sorted())
	assert.Equal(t, 2, b.Len(), "union must not modify its argument")

	a.Remove("VP2")
	a.Remove("VP9")
	assert.Equal(t, []string{"VP1", "VP3"}, a.Sorted())
}

func TestIDSet_UnionCommutes(t *testing.T) {
	left := NewIDSet("A", "B")
	left.Union(NewIDSet("B", "C"))

	right := NewIDSet("B", "C")
	right.Union(NewIDSet("A", "B"))

	assert.Equal(t, left.Sorted(), right.Sorted())
}

func TestIDSet_SortedEmpty(t *testing.T) {
	assert.Empty(t, IDSet{}.Sorted())
}

func TestNewProjectAggregate(t *testing.T) {
	agg := NewProjectAggregate("OLTAN GIDA")

	assert.Equal(t, "OLTAN GIDA", agg.Project)
	for _, s := range []IDSet{
		agg.Plan, agg.Fulfilled, agg.Cancelled, agg.Fleet, agg.Spot,
		agg.Printed, agg.Unprinted, agg.OnTimeRequests, agg.LateRequests,
	} {
		assert.NotNil(t, s)
		assert.Zero(t, s.Len())
	}
	assert.Empty(t, agg.PickupTimestamps)

	agg.PickupByDispatch["SFR1"] = time.Date(2024, 1, 10, 6, 0, 0, 0, time.UTC)
	assert.Len(t, agg.PickupByDispatch, 1)
	assert.NotNil(t, agg.OnTimeByDispatch)
	assert.NotNil(t, agg.LateByDispatch)
}
