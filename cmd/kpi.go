package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/freight-kpi/internal/kpi"
	"github.com/sells-group/freight-kpi/internal/model"
)

var (
	kpiInputs      inputFlags
	kpiRegion      string
	kpiQuery       string
	kpiLate        bool
	kpiUnfulfilled bool
	kpiSort        string
	kpiFormat      string
)

var kpiCmd = &cobra.Command{
	Use:   "kpi",
	Short: "Show per-project KPI rows for one region or all regions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx, false)
		if err != nil {
			return err
		}
		defer env.Close()

		snap, err := kpiInputs.evaluate(ctx, env.Engine)
		if err != nil {
			return err
		}

		opts := kpi.ViewOptions{
			Filter: kpi.Filter{Query: kpiQuery, LateOnly: kpiLate, UnfulfilledOnly: kpiUnfulfilled},
			Sort:   kpi.ParseSortKey(kpiSort),
		}
		var rows []model.KpiRow
		if kpiRegion != "" {
			var ok bool
			rows, ok = snap.Region(kpiRegion, opts)
			if !ok {
				return eris.Errorf("unknown region %q", kpiRegion)
			}
		} else {
			rows = snap.Global(opts)
		}

		out := cmd.OutOrStdout()
		if kpiFormat == "json" {
			return writeJSON(out, rows)
		}
		if len(rows) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No rows.")
			return nil
		}
		formatKpiRows(out, rows)
		return nil
	},
}

func init() {
	kpiInputs.register(kpiCmd, true)
	kpiCmd.Flags().StringVar(&kpiRegion, "region", "", "region name (default: every region)")
	kpiCmd.Flags().StringVarP(&kpiQuery, "query", "q", "", "project name substring")
	kpiCmd.Flags().BoolVar(&kpiLate, "late", false, "only rows with late fulfillment")
	kpiCmd.Flags().BoolVar(&kpiUnfulfilled, "unfulfilled", false, "only rows with unfulfilled demand")
	kpiCmd.Flags().StringVar(&kpiSort, "sort", "", "sort key: performance, plan or late (default catalog order)")
	kpiCmd.Flags().StringVar(&kpiFormat, "format", "table", "output format: table or json")
	rootCmd.AddCommand(kpiCmd)
}

// formatKpiRows writes a tabular list of KPI rows to out.
func formatKpiRows(out io.Writer, rows []model.KpiRow) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "REGION\tPROJECT\tPLAN\tFULFILLED\tUNFULFILLED\tCANCELLED\tFLEET\tSPOT\tPRINTED\tUNPRINTED\tLATE\tPERF%\tON_TIME%")
	for _, r := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			r.Region, r.Project, r.Plan, r.Fulfilled, r.Unfulfilled, r.Cancelled,
			r.Fleet, r.Spot, r.Printed, r.Unprinted, r.LateCount, r.PerformancePct, r.OnTimePct,
		)
	}
	_ = w.Flush()
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
