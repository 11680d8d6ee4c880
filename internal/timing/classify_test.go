package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	res := Classify("2024-01-10T08:00:00", "2024-01-10T06:00:00")
	assert.Equal(t, OnTime, res.Status)
	require.NotNil(t, res.Hours)
	assert.InDelta(t, 2.0, *res.Hours, 1e-9)
}

func TestClassify_Boundary(t *testing.T) {
	t.Parallel()

	pickup := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	exact := Classify(pickup.Add(30*time.Hour), pickup)
	assert.Equal(t, Late, exact.Status)
	assert.InDelta(t, 30.0, *exact.Hours, 1e-9)

	justUnder := Classify(pickup.Add(time.Duration(29.999*float64(time.Hour))), pickup)
	assert.Equal(t, OnTime, justUnder.Status)
}

func TestClassify_AbsoluteGap(t *testing.T) {
	t.Parallel()

	// Dispatch opened before the pickup time still counts by absolute gap.
	res := Classify("01.01.2024 00:00", "02.01.2024 12:00")
	assert.Equal(t, Late, res.Status)
	assert.InDelta(t, 36.0, *res.Hours, 1e-9)
}

func TestClassify_FarApartSymmetric(t *testing.T) {
	t.Parallel()

	// A mistyped year puts the pair beyond the range of time.Duration.
	forward := Classify("01.01.0024 08:00", "01.01.2024 08:00")
	reverse := Classify("01.01.2024 08:00", "01.01.0024 08:00")

	assert.Equal(t, Late, forward.Status)
	assert.Equal(t, Late, reverse.Status)
	require.NotNil(t, forward.Hours)
	require.NotNil(t, reverse.Hours)
	assert.Greater(t, *forward.Hours, 1.7e7)
	assert.InDelta(t, *forward.Hours, *reverse.Hours, 1e-6)
}

func TestClassify_SubSecondGap(t *testing.T) {
	t.Parallel()

	pickup := time.Date(2024, 1, 1, 0, 0, 0, 500_000_000, time.UTC)
	res := Classify(pickup.Add(-time.Second), pickup)
	assert.Equal(t, OnTime, res.Status)
	assert.InDelta(t, 1.0/3600, *res.Hours, 1e-12)
}

func TestClassify_NoData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		opened any
		pickup any
	}{
		{"both missing", nil, nil},
		{"opened missing", nil, "2024-01-10T06:00:00"},
		{"pickup garbage", "2024-01-10T06:00:00", "not a date"},
		{"sentinel", "VERİ YOK", "2024-01-10T06:00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Classify(tt.opened, tt.pickup)
			assert.Equal(t, NoData, res.Status)
			assert.Nil(t, res.Hours)
		})
	}
}

func TestNewClassifier_CustomThreshold(t *testing.T) {
	t.Parallel()

	c := NewClassifier(24*time.Hour, time.UTC)
	res := c.Classify("2024-01-02T01:00:00", "2024-01-01T00:00:00")
	assert.Equal(t, Late, res.Status)

	d := NewClassifier(0, nil)
	assert.Equal(t, DefaultThreshold, d.Threshold)
	assert.Equal(t, DefaultZone, d.Location)
}
