package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/freight-kpi/internal/api"
	"github.com/sells-group/freight-kpi/internal/engine"
	"github.com/sells-group/freight-kpi/internal/model"
)

var (
	servePort   int
	serveInputs inputFlags
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the KPI, forecast and timestamp JSON feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}
		env, err := initEngine(ctx, true)
		if err != nil {
			return err
		}
		defer env.Close()

		var records []model.RawRecord
		if len(serveInputs.inputs) > 0 {
			records, err = engine.LoadRecords(ctx, serveInputs.inputs, tabularOptions(serveInputs.sheet))
			if err != nil {
				return err
			}
		}

		if cfg.Catalog.Watch && cfg.Catalog.Path != "" {
			go func() {
				if err := env.Catalog.Watch(ctx); err != nil {
					zap.L().Warn("catalog watcher stopped", zap.Error(err))
				}
			}()
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := api.NewServer(env.Engine, cfg.Server, records)
		zap.L().Info("starting server",
			zap.Int("port", port),
			zap.Int("records", len(records)),
		)
		return srv.ListenAndServe(ctx, fmt.Sprintf(":%d", port))
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().StringSliceVarP(&serveInputs.inputs, "input", "i", nil, "record files to serve at startup (repeatable)")
	serveCmd.Flags().StringVar(&serveInputs.sheet, "sheet", "", "xlsx sheet name")
	rootCmd.AddCommand(serveCmd)
}
