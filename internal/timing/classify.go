package timing

import (
	"math"
	"time"
)

// Status is the timeliness class of a dispatch.
type Status string

const (
	NoData Status = "NO_DATA"
	OnTime Status = "ON_TIME"
	Late   Status = "LATE"
)

// DefaultThreshold is the gap at which a dispatch counts as late.
const DefaultThreshold = 30 * time.Hour

// Result is the outcome of classifying one timestamp pair. Hours is set
// only when both timestamps parsed.
type Result struct {
	Status Status   `json:"status"`
	Hours  *float64 `json:"hours,omitempty"`
}

// Classifier applies the late-fulfillment rule.
type Classifier struct {
	Threshold time.Duration
	Location  *time.Location
}

// NewClassifier returns a Classifier; a non-positive threshold uses
// DefaultThreshold.
func NewClassifier(threshold time.Duration, loc *time.Location) *Classifier {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if loc == nil {
		loc = DefaultZone
	}
	return &Classifier{Threshold: threshold, Location: loc}
}

// Classify compares the dispatch opening time against the pickup time. The
// gap is absolute; a gap strictly below the threshold is on time.
func (c *Classifier) Classify(dispatchOpenedAt, pickupAt any) Result {
	opened, ok := Parse(dispatchOpenedAt, c.Location)
	if !ok {
		return Result{Status: NoData}
	}
	pickup, ok := Parse(pickupAt, c.Location)
	if !ok {
		return Result{Status: NoData}
	}
	hours := gapHours(opened, pickup)
	if hours < c.Threshold.Hours() {
		return Result{Status: OnTime, Hours: &hours}
	}
	return Result{Status: Late, Hours: &hours}
}

// gapHours is |a-b| in hours. Seconds are subtracted as integers because
// time.Sub saturates for instants more than ~292 years apart.
func gapHours(a, b time.Time) float64 {
	secs := float64(a.Unix() - b.Unix())
	nanos := float64(a.Nanosecond() - b.Nanosecond())
	return math.Abs(secs+nanos/1e9) / 3600
}

// Classify applies the default 30-hour rule in DefaultZone.
func Classify(dispatchOpenedAt, pickupAt any) Result {
	return NewClassifier(DefaultThreshold, DefaultZone).Classify(dispatchOpenedAt, pickupAt)
}
