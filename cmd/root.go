package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/freight-kpi/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "freight-kpi",
	Short: "Freight operations KPI and forecasting engine",
	Long:  "Reconciles demand against dispatches per project and region, classifies late fulfillment, forecasts pickup volume and merges carrier milestone timestamps.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadDotEnv(".env"); err != nil {
			return err
		}

		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// loadDotEnv exports variables from path when it exists. Variables already
// set in the environment win.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return eris.Wrapf(err, "load %s", path)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
