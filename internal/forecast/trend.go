// Package forecast predicts next-period pickup volumes per project.
package forecast

import "math"

// DefaultMinBase suppresses trend percentages computed on tiny baselines.
const DefaultMinBase = 5.0

// TrendPct returns the percentage change from base to next, or nil when the
// base is non-finite, not positive or below minBase.
func TrendPct(next, base, minBase float64) *float64 {
	if math.IsNaN(base) || math.IsInf(base, 0) || base <= 0 || math.Abs(base) < minBase {
		return nil
	}
	pct := (next - base) / base * 100
	return &pct
}

// round is half-up rounding: 2.5 → 3, -2.5 → -2.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

func mean(vals []int) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return float64(sum) / float64(len(vals))
}

func tail(vals []int, n int) []int {
	if len(vals) <= n {
		return vals
	}
	return vals[len(vals)-n:]
}

func ratio(part, full int) float64 {
	if full == 0 {
		return 0
	}
	return math.Max(0, math.Min(1, float64(part)/float64(full)))
}
