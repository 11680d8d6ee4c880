package forecast

import (
	"time"

	"github.com/sells-group/freight-kpi/internal/model"
)

// DefaultMonths is the length of the monthly history window.
const DefaultMonths = 6

// History is the monthly pickup series before a reference month, oldest
// first, and the week splits of its last month.
type History struct {
	Months   []int            `json:"months"`
	Previous model.WeekSplits `json:"previous"`
}

// monthStart truncates t to the first instant of its month in loc.
func monthStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

// BuildHistory counts pickups per calendar month for the months complete
// before ref. The month containing ref is excluded.
func BuildHistory(pickups []time.Time, ref time.Time, months int, loc *time.Location) History {
	if months <= 0 {
		months = DefaultMonths
	}
	end := monthStart(ref, loc)
	start := end.AddDate(0, -months, 0)
	prevStart := end.AddDate(0, -1, 0)

	h := History{Months: make([]int, months)}
	for _, p := range pickups {
		p = p.In(loc)
		if p.Before(start) || !p.Before(end) {
			continue
		}
		idx := (p.Year()-start.Year())*12 + int(p.Month()) - int(start.Month())
		h.Months[idx]++

		if p.Before(prevStart) {
			continue
		}
		h.Previous.Full++
		switch day := p.Day(); {
		case day <= 7:
			h.Previous.W1++
			h.Previous.W2++
			h.Previous.W3++
		case day <= 14:
			h.Previous.W2++
			h.Previous.W3++
		case day <= 21:
			h.Previous.W3++
		}
	}
	return h
}
