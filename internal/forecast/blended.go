package forecast

import (
	"math"

	"github.com/sells-group/freight-kpi/internal/model"
)

// AlgorithmBlended names the blended trend model.
const AlgorithmBlended = "blended"

// slopeWindow is the number of trailing months the slope is fitted over.
const slopeWindow = 6

// BlendedTrend forecasts next month as the mean of the three-month average,
// the last month and a linear trend point, floored at zero. Week figures
// scale next month by the previous month's cumulative week ratios.
func BlendedTrend(project string, series []int, prev model.WeekSplits, minBase float64) model.ForecastRow {
	row := model.ForecastRow{
		Project:            project,
		Algorithm:          AlgorithmBlended,
		HistoricalMonths:   append([]int(nil), series...),
		Avg3Month:          mean(tail(series, 3)),
		PreviousMonthTotal: prev.Full,
		PreviousWeek1:      prev.W1,
		PreviousWeek2:      prev.W2,
		PreviousWeek3:      prev.W3,
	}
	row.NextMonthTotal = NextTotal(series)

	next := float64(row.NextMonthTotal)
	row.NextWeek1 = round(next * ratio(prev.W1, prev.Full))
	row.NextWeek2 = round(next * ratio(prev.W2, prev.Full))
	row.NextWeek3 = round(next * ratio(prev.W3, prev.Full))

	row.NextMonthTrendPct = TrendPct(next, row.Avg3Month, minBase)
	row.NextWeek1TrendPct = TrendPct(float64(row.NextWeek1), float64(prev.W1), minBase)
	row.NextWeek2TrendPct = TrendPct(float64(row.NextWeek2), float64(prev.W2), minBase)
	row.NextWeek3TrendPct = TrendPct(float64(row.NextWeek3), float64(prev.W3), minBase)
	return row
}

// NextTotal is the blended next-month figure for a monthly series.
func NextTotal(series []int) int {
	switch len(series) {
	case 0:
		return 0
	case 1:
		return max(0, round(float64(series[0])))
	}
	avg3 := mean(tail(series, 3))
	window := tail(series, slopeWindow)
	last := float64(window[len(window)-1])
	slope := (last - float64(window[0])) / float64(len(window)-1)
	trendPoint := last + slope
	return max(0, round(math.Max(0, (avg3+last+trendPoint)/3)))
}
