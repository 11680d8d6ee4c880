package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/freight-kpi/internal/model"
	"github.com/sells-group/freight-kpi/internal/store"
	"github.com/sells-group/freight-kpi/internal/tabular"
)

var timestampsCmd = &cobra.Command{
	Use:   "timestamps",
	Short: "Manage carrier milestone timestamps",
	Long:  "Import milestone tables keyed by dispatch number, look up merged milestones and list past imports.",
}

// -- timestamps import --

var (
	tsImportSheet    string
	tsImportEncoding string
)

var timestampsImportCmd = &cobra.Command{
	Use:   "import <file|ftp-url>",
	Short: "Merge a milestone table into the timestamp store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx, true)
		if err != nil {
			return err
		}
		defer env.Close()

		opts := tabularOptions(tsImportSheet)
		if tsImportEncoding != "" {
			opts.Encoding = tsImportEncoding
		}
		table, err := tabular.Load(ctx, args[0], opts)
		if err != nil {
			return eris.Wrap(err, "timestamps import")
		}

		run, err := env.Engine.ImportTimestamps(ctx, args[0], table)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "import %s: %d rows, %d merged, %d skipped\n",
			run.ID, run.Rows, run.Merged, run.Skipped)
		return nil
	},
}

// -- timestamps get --

var timestampsGetCmd = &cobra.Command{
	Use:   "get <dispatch-id>",
	Short: "Show merged milestones for a dispatch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx, true)
		if err != nil {
			return err
		}
		defer env.Close()

		rec, ok, err := env.Engine.Timestamps(ctx, args[0])
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "No timestamps found.")
			return nil
		}
		formatTimestamps(cmd.OutOrStdout(), rec)
		return nil
	},
}

// -- timestamps list --

var timestampsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List merged milestones for every dispatch",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx, true)
		if err != nil {
			return err
		}
		defer env.Close()

		rows, err := env.Engine.ListTimestamps(ctx)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Fprintln(os.Stderr, "No timestamps found.")
			return nil
		}
		formatTimestampRows(cmd.OutOrStdout(), rows)
		return nil
	},
}

// -- timestamps imports --

var timestampsImportsCmd = &cobra.Command{
	Use:   "imports",
	Short: "List recent timestamp imports",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := st.ListImports(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "timestamps imports")
		}
		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No imports found.")
			return nil
		}
		formatImportRuns(cmd.OutOrStdout(), runs)
		return nil
	},
}

func init() {
	timestampsImportCmd.Flags().StringVar(&tsImportSheet, "sheet", "", "xlsx sheet name")
	timestampsImportCmd.Flags().StringVar(&tsImportEncoding, "encoding", "", "csv charset, e.g. windows-1254 (default from config)")
	timestampsImportsCmd.Flags().Int("limit", 20, "max number of imports to display")

	timestampsCmd.AddCommand(timestampsImportCmd)
	timestampsCmd.AddCommand(timestampsGetCmd)
	timestampsCmd.AddCommand(timestampsListCmd)
	timestampsCmd.AddCommand(timestampsImportsCmd)
	rootCmd.AddCommand(timestampsCmd)
}

// formatTimestamps writes every milestone in display order; absent values
// print as the no-data label.
func formatTimestamps(out io.Writer, rec model.TimestampRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, f := range model.TimestampFields {
		v, ok := rec[f]
		if !ok || v == "" {
			v = model.NoDataLabel
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\n", f, v)
	}
	_ = w.Flush()
}

// formatTimestampRows writes one line per dispatch with a column per
// milestone.
func formatTimestampRows(out io.Writer, rows []model.ExternalTimestamps) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprint(w, "DISPATCH")
	for _, f := range model.TimestampFields {
		_, _ = fmt.Fprintf(w, "\t%s", f)
	}
	_, _ = fmt.Fprintln(w)
	for _, r := range rows {
		_, _ = fmt.Fprint(w, r.DispatchID)
		for _, f := range model.TimestampFields {
			v := r.Fields[f]
			if v == "" {
				v = model.NoDataLabel
			}
			_, _ = fmt.Fprintf(w, "\t%s", v)
		}
		_, _ = fmt.Fprintln(w)
	}
	_ = w.Flush()
}

// formatImportRuns writes a tabular list of import runs to out.
func formatImportRuns(out io.Writer, runs []store.ImportRun) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSOURCE\tROWS\tMERGED\tSKIPPED\tCREATED")
	for _, r := range runs {
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
			id, r.Source, r.Rows, r.Merged, r.Skipped, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	_ = w.Flush()
}
