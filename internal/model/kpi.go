package model

// KpiRow is the display-ready projection of a ProjectAggregate. Rows are
// recomputed on every filter or window change and never persisted.
type KpiRow struct {
	Project        string `json:"project"`
	Region         string `json:"region,omitempty"`
	Plan           int    `json:"plan"`
	Fulfilled      int    `json:"fulfilled"`
	Unfulfilled    int    `json:"unfulfilled"`
	Cancelled      int    `json:"cancelled"`
	Fleet          int    `json:"fleet"`
	Spot           int    `json:"spot"`
	Printed        int    `json:"printed"`
	Unprinted      int    `json:"unprinted"`
	OnTimeCount    int    `json:"on_time_count"`
	LateCount      int    `json:"late_count"`
	PerformancePct int    `json:"performance_pct"`
	OnTimePct      int    `json:"on_time_pct"`
}
