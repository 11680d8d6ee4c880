package tabular

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/freight-kpi/internal/resilience"
)

// Options configures Load and ReadFile.
type Options struct {
	Encoding  string // CSV charset label
	Delimiter rune   // CSV delimiter; 0 detects
	Sheet     string // XLSX sheet name; empty reads the first sheet
	FTP       FTPOptions
}

func (o Options) csv() CSVOptions {
	return CSVOptions{Encoding: o.Encoding, Delimiter: o.Delimiter}
}

func (o Options) xlsx() XLSXOptions {
	return XLSXOptions{SheetName: o.Sheet}
}

// ReadFile reads a local .csv, .tsv or .xlsx file by extension.
func ReadFile(ctx context.Context, name string, opts Options) ([][]string, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xlsx":
		return ReadXLSX(name, opts.xlsx())
	case ".csv", ".tsv", ".txt":
		f, err := os.Open(name)
		if err != nil {
			return nil, eris.Wrap(err, "tabular: open file")
		}
		defer f.Close() //nolint:errcheck
		co := opts.csv()
		if ext == ".tsv" && co.Delimiter == 0 {
			co.Delimiter = '\t'
		}
		return ReadCSV(ctx, f, co)
	default:
		return nil, eris.Errorf("tabular: unsupported file type %q", ext)
	}
}

// Load reads a table from a local path or an ftp:// URL. Remote files are
// downloaded to a temporary file first.
func Load(ctx context.Context, location string, opts Options) ([][]string, error) {
	if !strings.HasPrefix(strings.ToLower(location), "ftp://") {
		return ReadFile(ctx, location, opts)
	}
	return Fetch(ctx, location, opts)
}

// Fetch downloads an ftp:// URL and reads it as a table.
func Fetch(ctx context.Context, ftpURL string, opts Options) ([][]string, error) {
	u, err := url.Parse(ftpURL)
	if err != nil {
		return nil, eris.Wrap(err, "tabular: parse url")
	}

	dir, err := os.MkdirTemp("", "freight-kpi-*")
	if err != nil {
		return nil, eris.Wrap(err, "tabular: create temp dir")
	}
	defer os.RemoveAll(dir) //nolint:errcheck

	local := filepath.Join(dir, path.Base(u.Path))
	fetcher := NewFTPFetcher(opts.FTP)
	retry := opts.FTP.Retry
	if retry.OnRetry == nil {
		retry.OnRetry = resilience.RetryLogger(u.Redacted(), "ftp download")
	}
	n, err := resilience.Do(ctx, retry, func(ctx context.Context) (int64, error) {
		return fetcher.DownloadToFile(ctx, ftpURL, local)
	})
	if err != nil {
		return nil, eris.Wrap(err, "tabular: fetch")
	}
	zap.L().Info("tabular: fetched remote file", zap.String("url", u.Redacted()), zap.Int64("bytes", n))

	return ReadFile(ctx, local, opts)
}
