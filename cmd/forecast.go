package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/freight-kpi/internal/forecast"
	"github.com/sells-group/freight-kpi/internal/model"
	"github.com/sells-group/freight-kpi/internal/timing"
)

var (
	forecastInputs    inputFlags
	forecastRef       string
	forecastAlgorithm string
	forecastFormat    string
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast next-month pickup volume per project",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if forecastAlgorithm != "" {
			cfg.Forecast.Algorithm = forecastAlgorithm
		}
		env, err := initEngine(ctx, false)
		if err != nil {
			return err
		}
		defer env.Close()

		var ref time.Time
		if forecastRef != "" {
			t, ok := timing.ParseString(forecastRef, env.Engine.Location())
			if !ok {
				return eris.Errorf("invalid --ref %q", forecastRef)
			}
			ref = t
		}

		snap, err := forecastInputs.evaluate(ctx, env.Engine)
		if err != nil {
			return err
		}
		rows := forecast.Sorted(env.Engine.Forecast(snap, ref))

		out := cmd.OutOrStdout()
		if forecastFormat == "json" {
			return writeJSON(out, rows)
		}
		formatForecastRows(out, rows)
		return nil
	},
}

func init() {
	forecastInputs.register(forecastCmd, true)
	forecastCmd.Flags().StringVar(&forecastRef, "ref", "", "reference time (default now)")
	forecastCmd.Flags().StringVar(&forecastAlgorithm, "algorithm", "", "blended or window (default from config)")
	forecastCmd.Flags().StringVar(&forecastFormat, "format", "table", "output format: table or json")
	rootCmd.AddCommand(forecastCmd)
}

// formatForecastRows writes forecast rows to out. Missing trends print as
// "-".
func formatForecastRows(out io.Writer, rows []model.ForecastRow) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PROJECT\tAVG3\tPREV\tNEXT\tTREND%\tW1\tW2\tW3")
	for _, r := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%.1f\t%d\t%d\t%s\t%d (%s)\t%d (%s)\t%d (%s)\n",
			r.Project, r.Avg3Month, r.PreviousMonthTotal, r.NextMonthTotal, pct(r.NextMonthTrendPct),
			r.NextWeek1, pct(r.NextWeek1TrendPct),
			r.NextWeek2, pct(r.NextWeek2TrendPct),
			r.NextWeek3, pct(r.NextWeek3TrendPct),
		)
	}
	_ = w.Flush()
}

func pct(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%+.1f", *v)
}
