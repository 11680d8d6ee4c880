package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrendPct(t *testing.T) {
	tests := []struct {
		name    string
		next    float64
		base    float64
		minBase float64
		want    *float64
	}{
		{name: "base below minimum", next: 6, base: 4, minBase: 5},
		{name: "zero base", next: 6, base: 0, minBase: 0},
		{name: "negative base", next: 6, base: -10, minBase: 5},
		{name: "nan base", next: 6, base: math.NaN(), minBase: 5},
		{name: "infinite base", next: 6, base: math.Inf(1), minBase: 5},
		{name: "doubling", next: 12, base: 6, minBase: 5, want: ptr(100)},
		{name: "halving", next: 5, base: 10, minBase: 5, want: ptr(-50)},
		{name: "flat", next: 10, base: 10, minBase: 5, want: ptr(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrendPct(tt.next, tt.base, tt.minBase)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestRound_HalfUp(t *testing.T) {
	assert.Equal(t, 3, round(2.5))
	assert.Equal(t, 2, round(2.49))
	assert.Equal(t, -2, round(-2.5))
	assert.Equal(t, 0, round(0.4))
}

func TestRatio_Clamped(t *testing.T) {
	assert.Equal(t, 0.0, ratio(3, 0))
	assert.Equal(t, 1.0, ratio(12, 10))
	assert.Equal(t, 0.0, ratio(-2, 10))
	assert.InDelta(t, 0.25, ratio(5, 20), 1e-9)
}

func ptr(v float64) *float64 { return &v }
