// Package export renders report tables to XLSX and CSV.
package export

// Tier is the conditional coloring band of a report cell.
type Tier int

const (
	TierNone Tier = iota
	TierGood
	TierWarn
	TierBad
)

func (t Tier) String() string {
	switch t {
	case TierGood:
		return "good"
	case TierWarn:
		return "warn"
	case TierBad:
		return "bad"
	default:
		return "none"
	}
}

// Thresholds are the fixed tier boundaries.
type Thresholds struct {
	PerformanceGood int // performance at or above is good
	PerformanceWarn int // performance at or above is warn, below is bad
	CountBad        int // shortfall counts at or above are bad, 1..CountBad-1 warn
}

// DefaultThresholds match the management report.
var DefaultThresholds = Thresholds{PerformanceGood: 95, PerformanceWarn: 85, CountBad: 5}

// shortfallColumns are counts where zero is the target.
var shortfallColumns = map[string]bool{
	"unfulfilled": true,
	"late":        true,
	"unprinted":   true,
}

// Classify returns the tier for a numeric cell in column.
func (th Thresholds) Classify(column string, value int) Tier {
	switch {
	case column == "performance_pct":
		switch {
		case value >= th.PerformanceGood:
			return TierGood
		case value >= th.PerformanceWarn:
			return TierWarn
		default:
			return TierBad
		}
	case shortfallColumns[column]:
		switch {
		case value <= 0:
			return TierGood
		case value < th.CountBad:
			return TierWarn
		default:
			return TierBad
		}
	}
	return TierNone
}
