package model

// WeekSplits holds cumulative pickup counts from month start through day
// 7, 14 and 21, plus the full month total.
type WeekSplits struct {
	W1   int `json:"w1"`
	W2   int `json:"w2"`
	W3   int `json:"w3"`
	Full int `json:"full"`
}

// ForecastRow is the per-project volume forecast. Trend fields are nil when
// the baseline is too small to produce a meaningful percentage.
type ForecastRow struct {
	Project            string   `json:"project"`
	Algorithm          string   `json:"algorithm"`
	HistoricalMonths   []int    `json:"historical_months"`
	Avg3Month          float64  `json:"avg_3_month"`
	PreviousMonthTotal int      `json:"previous_month_total"`
	PreviousWeek1      int      `json:"previous_week_1"`
	PreviousWeek2      int      `json:"previous_week_2"`
	PreviousWeek3      int      `json:"previous_week_3"`
	NextMonthTotal     int      `json:"next_month_total"`
	NextWeek1          int      `json:"next_week_1"`
	NextWeek2          int      `json:"next_week_2"`
	NextWeek3          int      `json:"next_week_3"`
	NextMonthTrendPct  *float64 `json:"next_month_trend_pct"`
	NextWeek1TrendPct  *float64 `json:"next_week_1_trend_pct"`
	NextWeek2TrendPct  *float64 `json:"next_week_2_trend_pct"`
	NextWeek3TrendPct  *float64 `json:"next_week_3_trend_pct"`
}
