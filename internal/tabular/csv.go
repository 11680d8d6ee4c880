// Package tabular reads header-first tables from CSV and XLSX files, local
// or fetched over FTP.
package tabular

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

// CSVOptions configures ReadCSV.
type CSVOptions struct {
	Encoding  string // charset label, e.g. "windows-1254"; empty means UTF-8
	Delimiter rune   // 0 detects ',', ';' or tab from the first line
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV reads every row of r. Rows may have differing lengths and cells
// are trimmed.
func ReadCSV(ctx context.Context, r io.Reader, opts CSVOptions) ([][]string, error) {
	if opts.Encoding != "" && !strings.EqualFold(opts.Encoding, "utf-8") {
		enc, err := htmlindex.Get(opts.Encoding)
		if err != nil {
			return nil, eris.Wrapf(err, "csv: unsupported charset %q", opts.Encoding)
		}
		r = enc.NewDecoder().Reader(r)
	}

	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM)) //nolint:errcheck
	}

	delim := opts.Delimiter
	if delim == 0 {
		delim = detectDelimiter(br)
	}

	reader := csv.NewReader(br)
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "csv: context cancelled")
		}
		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}
		for i, field := range record {
			record[i] = strings.TrimSpace(field)
		}
		rows = append(rows, record)
	}
}

// detectDelimiter picks the most frequent candidate in the first line.
// Spreadsheet exports in Turkish locales use ';'.
func detectDelimiter(br *bufio.Reader) rune {
	line, _ := br.Peek(br.Size())
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	best, bestCount := ',', 0
	for _, c := range []rune{',', ';', '\t'} {
		if n := bytes.Count(line, []byte(string(c))); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}
