package export

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/cyra/weblog/internal/parser"
	"github.com/cyra/weblog/internal/table"
)

// WriteCSV writes a header row of column names and one row per record. The time
// column is written as RFC 3339.
func WriteCSV(w io.Writer, records []parser.Record) error {
	cw := csv.NewWriter(w)

	cols := table.Columns()
	if err := cw.Write(cols); err != nil {
		return err
	}

	row := make([]string, len(cols))
	for i := range records {
		r := &records[i]
		for j, col := range cols {
			if col == parser.ColTimeLocal {
				row[j] = r.TimeLocal.Format(time.RFC3339)
				continue
			}
			row[j], _ = r.Field(col)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
