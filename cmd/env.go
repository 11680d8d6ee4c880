package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/freight-kpi/internal/aggregate"
	"github.com/sells-group/freight-kpi/internal/engine"
	"github.com/sells-group/freight-kpi/internal/project"
	"github.com/sells-group/freight-kpi/internal/resilience"
	"github.com/sells-group/freight-kpi/internal/store"
	"github.com/sells-group/freight-kpi/internal/tabular"
	"github.com/sells-group/freight-kpi/internal/timing"
)

// engineEnv holds the catalog, optional store and engine a command needs.
type engineEnv struct {
	Catalog *project.Holder
	Store   store.Store // nil unless requested
	Engine  *engine.Engine
}

// Close releases the store, if any.
func (e *engineEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}
	var poolCfg *store.PoolConfig
	if cfg.Store.MaxConns > 0 || cfg.Store.MinConns > 0 {
		poolCfg = &store.PoolConfig{MaxConns: cfg.Store.MaxConns, MinConns: cfg.Store.MinConns}
	}
	return store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL, poolCfg)
}

// initEngine loads the catalog and builds the engine. withStore opens the
// configured timestamp store.
func initEngine(ctx context.Context, withStore bool) (*engineEnv, error) {
	if err := cfg.Validate("engine"); err != nil {
		return nil, err
	}

	holder, err := project.NewHolder(cfg.Catalog.Path)
	if err != nil {
		return nil, eris.Wrap(err, "load catalog")
	}

	env := &engineEnv{Catalog: holder}
	if withStore {
		st, err := initStore(ctx)
		if err != nil {
			return nil, err
		}
		env.Store = st
	}
	env.Engine = engine.New(cfg, holder, env.Store)
	return env, nil
}

func tabularOptions(sheet string) tabular.Options {
	if sheet == "" {
		sheet = cfg.Import.Sheet
	}
	return tabular.Options{
		Encoding: cfg.Import.Encoding,
		Sheet:    sheet,
		FTP: tabular.FTPOptions{
			Retry: resilience.RetryConfig{MaxAttempts: cfg.Import.FTPRetries},
		},
	}
}

// inputFlags are shared by the commands that evaluate record files.
type inputFlags struct {
	inputs []string
	sheet  string
	from   string
	to     string
}

func (f *inputFlags) register(cmd *cobra.Command, required bool) {
	cmd.Flags().StringSliceVarP(&f.inputs, "input", "i", nil, "record file: .json, .csv, .tsv, .xlsx or ftp:// URL (repeatable)")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "xlsx sheet name (default from config, else first sheet)")
	cmd.Flags().StringVar(&f.from, "from", "", "window start, inclusive (e.g. 2024-01-01)")
	cmd.Flags().StringVar(&f.to, "to", "", "window end, exclusive")
	if required {
		_ = cmd.MarkFlagRequired("input")
	}
}

// evaluate loads the input files and aggregates them under the window.
func (f *inputFlags) evaluate(ctx context.Context, eng *engine.Engine) (*engine.Snapshot, error) {
	w, err := parseWindow(f.from, f.to, eng.Location())
	if err != nil {
		return nil, err
	}
	recs, err := engine.LoadRecords(ctx, f.inputs, tabularOptions(f.sheet))
	if err != nil {
		return nil, err
	}
	snap, err := eng.Evaluate(ctx, recs, w)
	if err != nil {
		return nil, err
	}
	zap.L().Info("records evaluated",
		zap.Int("files", len(f.inputs)),
		zap.Int("records", len(recs)),
		zap.Int("projects", len(snap.Aggregates)),
	)
	return snap, nil
}

// parseWindow reads optional --from and --to values in loc.
func parseWindow(from, to string, loc *time.Location) (aggregate.Window, error) {
	var w aggregate.Window
	if from != "" {
		t, ok := timing.ParseString(from, loc)
		if !ok {
			return w, eris.Errorf("invalid --from %q", from)
		}
		w.From = t
	}
	if to != "" {
		t, ok := timing.ParseString(to, loc)
		if !ok {
			return w, eris.Errorf("invalid --to %q", to)
		}
		w.To = t
	}
	return w, nil
}
