package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThresholds_Classify(t *testing.T) {
	th := DefaultThresholds
	tests := []struct {
		column string
		value  int
		want   Tier
	}{
		{"performance_pct", 100, TierGood},
		{"performance_pct", 95, TierGood},
		{"performance_pct", 94, TierWarn},
		{"performance_pct", 85, TierWarn},
		{"performance_pct", 84, TierBad},
		{"unfulfilled", 0, TierGood},
		{"unfulfilled", 4, TierWarn},
		{"unfulfilled", 5, TierBad},
		{"late", 1, TierWarn},
		{"unprinted", 12, TierBad},
		{"demand", 0, TierNone},
		{"project", 3, TierNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, th.Classify(tt.column, tt.value), "%s=%d", tt.column, tt.value)
	}
}

func TestTier_String(t *testing.T) {
	assert.Equal(t, "good", TierGood.String())
	assert.Equal(t, "bad", TierBad.String())
	assert.Equal(t, "none", Tier(42).String())
}
