package main

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/freight-kpi/internal/export"
	"github.com/sells-group/freight-kpi/internal/kpi"
)

var (
	reportInputs    inputFlags
	reportOut       string
	reportDelimiter string
	reportSort      string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export per-region KPI tables to xlsx or csv",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx, false)
		if err != nil {
			return err
		}
		defer env.Close()

		snap, err := reportInputs.evaluate(ctx, env.Engine)
		if err != nil {
			return err
		}
		tables := snap.Report(kpi.ViewOptions{Sort: kpi.ParseSortKey(reportSort)})

		if err := writeReport(reportOut, tables, reportDelimiter); err != nil {
			return err
		}
		zap.L().Info("report written",
			zap.String("path", reportOut),
			zap.Int("regions", len(tables)),
		)
		return nil
	},
}

func init() {
	reportInputs.register(reportCmd, true)
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "kpi-report.xlsx", "output path; .csv writes csv, anything else xlsx")
	reportCmd.Flags().StringVar(&reportDelimiter, "delimiter", ",", "csv delimiter")
	reportCmd.Flags().StringVar(&reportSort, "sort", "", "row order within a region: performance, plan or late")
	rootCmd.AddCommand(reportCmd)
}

func writeReport(path string, tables []kpi.Table, delimiter string) error {
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return export.SaveXLSX(path, tables, export.DefaultThresholds)
	}

	comma, size := utf8.DecodeRuneInString(delimiter)
	if size == 0 || size != len(delimiter) {
		return eris.Errorf("delimiter must be a single character, got %q", delimiter)
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "create report")
	}
	if err := export.WriteCSV(f, tables, comma); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	return eris.Wrap(f.Close(), "close report")
}
