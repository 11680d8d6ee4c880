package forecast

import (
	"time"

	"github.com/sells-group/freight-kpi/internal/model"
)

// AlgorithmWindow names the trailing-window counter.
const AlgorithmWindow = "window"

// windowLength is the span of one counting window.
const windowLength = 30 * 24 * time.Hour

// WindowCount predicts next period's volume as the pickup count of the last
// 30 days before ref, with cumulative 7/14/21-day splits. Trends compare
// against the 30 days before that.
func WindowCount(project string, pickups []time.Time, ref time.Time, history History, minBase float64) model.ForecastRow {
	last := countWindow(pickups, ref.Add(-windowLength))
	prior := countWindow(pickups, ref.Add(-2*windowLength))

	row := model.ForecastRow{
		Project:            project,
		Algorithm:          AlgorithmWindow,
		HistoricalMonths:   history.Months,
		Avg3Month:          mean(tail(history.Months, 3)),
		PreviousMonthTotal: prior.Full,
		PreviousWeek1:      prior.W1,
		PreviousWeek2:      prior.W2,
		PreviousWeek3:      prior.W3,
		NextMonthTotal:     last.Full,
		NextWeek1:          last.W1,
		NextWeek2:          last.W2,
		NextWeek3:          last.W3,
	}
	row.NextMonthTrendPct = TrendPct(float64(last.Full), float64(prior.Full), minBase)
	row.NextWeek1TrendPct = TrendPct(float64(last.W1), float64(prior.W1), minBase)
	row.NextWeek2TrendPct = TrendPct(float64(last.W2), float64(prior.W2), minBase)
	row.NextWeek3TrendPct = TrendPct(float64(last.W3), float64(prior.W3), minBase)
	return row
}

// countWindow counts pickups in [start, start+30d) with cumulative splits at
// 7, 14 and 21 days.
func countWindow(pickups []time.Time, start time.Time) model.WeekSplits {
	var s model.WeekSplits
	end := start.Add(windowLength)
	for _, p := range pickups {
		if p.Before(start) || !p.Before(end) {
			continue
		}
		s.Full++
		offset := p.Sub(start)
		if offset < 7*24*time.Hour {
			s.W1++
		}
		if offset < 14*24*time.Hour {
			s.W2++
		}
		if offset < 21*24*time.Hour {
			s.W3++
		}
	}
	return s
}
