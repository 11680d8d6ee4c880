package export

import (
	"encoding/csv"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/freight-kpi/internal/kpi"
)

// csvRow flattens a report row with its region.
type csvRow struct {
	Region string `csv:"region"`
	kpi.ReportRow
}

// WriteCSV writes every table as one flat CSV with a leading region column.
// Totals rows are included with project TOPLAM.
func WriteCSV(w io.Writer, tables []kpi.Table, comma rune) error {
	cw := csv.NewWriter(w)
	if comma != 0 {
		cw.Comma = comma
	}
	enc := csvutil.NewEncoder(cw)

	var rows []csvRow
	for _, t := range tables {
		for _, r := range t.Rows {
			rows = append(rows, csvRow{Region: t.Region, ReportRow: r})
		}
		rows = append(rows, csvRow{Region: t.Region, ReportRow: t.Totals})
	}

	var err error
	if len(rows) == 0 {
		err = enc.EncodeHeader(csvRow{})
	} else {
		err = enc.Encode(rows)
	}
	if err != nil {
		return eris.Wrap(err, "export: encode csv")
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}
	return nil
}
