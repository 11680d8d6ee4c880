package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/freight-kpi/internal/config"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// useConfig installs a config with a SQLite store under t.TempDir.
func useConfig(t *testing.T) *config.Config {
	t.Helper()
	old := cfg
	cfg = &config.Config{
		Store: config.StoreConfig{Driver: "sqlite", DatabaseURL: filepath.Join(t.TempDir(), "cli.db")},
		Log:   config.LogConfig{Level: "info", Format: "json"},
		Server: config.ServerConfig{
			Port: 8080, RateLimitRPS: 20, RateLimitBurst: 40, CORSOrigins: []string{"*"},
		},
		Engine: config.EngineConfig{
			DispatchPrefix:      "SFR",
			CancelStatus:        9,
			PlaceholderPrefixes: []string{"-", "YOK"},
			FleetModes:          []string{"ÖZMAL", "FİLO", "KİRALIK FİLO"},
			LateThresholdHours:  30,
			Timezone:            "Europe/Istanbul",
			Workers:             1,
		},
		Forecast: config.ForecastConfig{Algorithm: "blended", Months: 6, MinBase: 5},
		Import:   config.ImportConfig{Encoding: "utf-8"},
	}
	t.Cleanup(func() { cfg = old })
	return cfg
}

// runCmd executes c's RunE with captured stdout.
func runCmd(t *testing.T, c *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&bytes.Buffer{})
	c.SetContext(context.Background())
	t.Cleanup(func() {
		c.SetOut(nil)
		c.SetErr(nil)
	})
	err := c.RunE(c, args)
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const recordsCSV = `PROJE;YÜKLEME İLİ;YÜKLEME İLÇESİ;TALEP NO;SEFER NO;DURUM;ARAÇ ÇALIŞMA ŞEKLİ;İRSALİYE BASILDI;SEFER AÇILIŞ;YÜKLEME TARİHİ
PEPSİ FTL;TEKİRDAĞ;ÇORLU;VP1;SFR100;5;ÖZMAL;1;10.01.2024 08:00;10.01.2024 09:00
PEPSİ FTL;TEKİRDAĞ;ÇORLU;VP2;;;;;;
ETİ FTL;;;VP3;SFR300;5;SPOT;0;10.01.2024 08:00;13.01.2024 08:00
TEST PROJE;;;VP4;SFR400;5;SPOT;1;;
`
