package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"kpi", "forecast", "report", "timestamps", "catalog", "serve"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "freight-kpi", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestTimestampsCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range timestampsCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"import", "get", "list", "imports"} {
		assert.True(t, names[name], "timestamps should have subcommand %q", name)
	}
}

func TestInputFlags_Registered(t *testing.T) {
	for _, c := range []struct {
		name  string
		flags []string
	}{
		{"kpi", []string{"input", "sheet", "from", "to", "region", "query", "late", "unfulfilled", "sort", "format"}},
		{"forecast", []string{"input", "ref", "algorithm", "format"}},
		{"report", []string{"input", "out", "delimiter", "sort"}},
	} {
		cmd, _, err := rootCmd.Find([]string{c.name})
		require.NoError(t, err)
		for _, f := range c.flags {
			assert.NotNil(t, cmd.Flags().Lookup(f), "%s should have --%s", c.name, f)
		}
	}
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "0", flag.DefValue)
	assert.NotNil(t, serveCmd.Flags().Lookup("input"))
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
}

func TestRootCmd_PersistentPreRunE_WithValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configContent := `
store:
  driver: postgres
  database_url: postgres://localhost/freight
log:
  level: info
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte(configContent), 0o644))
	chdir(t, tmpDir)

	oldCfg := cfg
	cfg = nil
	defer func() { cfg = oldCfg }()

	require.NoError(t, rootCmd.PersistentPreRunE(rootCmd, nil))
	require.NotNil(t, cfg)
	assert.Equal(t, "postgres", cfg.Store.Driver)
}

func TestRootCmd_PersistentPreRunE_NoConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	oldCfg := cfg
	cfg = nil
	defer func() { cfg = oldCfg }()

	require.NoError(t, rootCmd.PersistentPreRunE(rootCmd, nil))
	require.NotNil(t, cfg)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestRootCmd_PersistentPreRunE_DotEnv(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("FREIGHT_ENGINE_DISPATCH_PREFIX=TRP\n"), 0o644))
	chdir(t, tmpDir)
	// Registers cleanup so the variable godotenv exports does not leak.
	t.Setenv("FREIGHT_ENGINE_DISPATCH_PREFIX", "")
	require.NoError(t, os.Unsetenv("FREIGHT_ENGINE_DISPATCH_PREFIX"))

	oldCfg := cfg
	defer func() { cfg = oldCfg }()

	require.NoError(t, rootCmd.PersistentPreRunE(rootCmd, nil))
	assert.Equal(t, "TRP", cfg.Engine.DispatchPrefix)
}

func TestRootCmd_PersistentPreRunE_BadLogLevel(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("FREIGHT_LOG_LEVEL", "loud")

	oldCfg := cfg
	defer func() { cfg = oldCfg }()

	err := rootCmd.PersistentPreRunE(rootCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init logger")
}

func TestLoadDotEnv_Missing(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), ".env")))
}
