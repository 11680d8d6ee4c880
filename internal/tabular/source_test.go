package tabular

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/freight-kpi/internal/resilience"
)

func TestReadFile_ByExtension(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "rows.CSV")
	require.NoError(t, os.WriteFile(csvPath, []byte("a;b\n1;2\n"), 0o644))
	tsvPath := filepath.Join(dir, "rows.tsv")
	require.NoError(t, os.WriteFile(tsvPath, []byte("a\tb,c\n"), 0o644))
	xlsxPath := createTestXLSX(t, []string{"S"}, map[string][][]string{"S": {{"h"}, {"v"}}})

	rows, err := ReadFile(context.Background(), csvPath, Options{})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, rows)

	rows, err = ReadFile(context.Background(), tsvPath, Options{})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b,c"}}, rows)

	rows, err = ReadFile(context.Background(), xlsxPath, Options{Sheet: "S"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"h"}, {"v"}}, rows)
}

func TestReadFile_Unsupported(t *testing.T) {
	_, err := ReadFile(context.Background(), "data.json", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(context.Background(), filepath.Join(t.TempDir(), "gone.csv"), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tabular: open file")
}

func TestLoad_FTP(t *testing.T) {
	srv := newMiniFTPServer(t, map[string]string{
		"/drops/zaman.csv": "Sefer No;Yükleme Varış\nSFR1;01.02.2024 09:00\n",
	})
	defer srv.close()

	rows, err := Load(context.Background(), fmt.Sprintf("ftp://%s/drops/zaman.csv", srv.addr()),
		Options{FTP: FTPOptions{Timeout: 5 * time.Second}})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Sefer No", "Yükleme Varış"}, {"SFR1", "01.02.2024 09:00"}}, rows)
}

func TestLoad_FTPRetriesRefusedConnection(t *testing.T) {
	var attempts []int
	opts := Options{FTP: FTPOptions{
		Timeout: time.Second,
		Retry: resilience.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: time.Millisecond,
			MaxBackoff:     time.Millisecond,
			OnRetry:        func(attempt int, _ error) { attempts = append(attempts, attempt) },
		},
	}}

	_, err := Load(context.Background(), "ftp://127.0.0.1:19999/drops/zaman.csv", opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tabular: fetch")
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestLoad_FTPMissingFileNotRetried(t *testing.T) {
	srv := newMiniFTPServer(t, map[string]string{"/drops/other.csv": "a\n"})
	defer srv.close()

	retried := 0
	opts := Options{FTP: FTPOptions{
		Timeout: 5 * time.Second,
		Retry: resilience.RetryConfig{
			InitialBackoff: time.Millisecond,
			OnRetry:        func(int, error) { retried++ },
		},
	}}

	_, err := Load(context.Background(), fmt.Sprintf("ftp://%s/drops/zaman.csv", srv.addr()), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ftp retrieve")
	assert.Zero(t, retried)
}

func TestLoad_LocalPath(t *testing.T) {
	p := filepath.Join(t.TempDir(), "x.csv")
	require.NoError(t, os.WriteFile(p, []byte("a\n"), 0o644))

	rows, err := Load(context.Background(), p, Options{})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}}, rows)
}
