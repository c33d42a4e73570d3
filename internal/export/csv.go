package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/report"
)

// RenderCSV writes every table as a CSV block with its header row. Blocks
// are separated by an empty line. Files written with Write hold one table
// each instead.
func RenderCSV(w io.Writer, tables []report.Table) error {
	for i, table := range tables {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return fmt.Errorf("write separator: %w", err)
			}
		}

		if err := writeCSV(w, table); err != nil {
			return err
		}
	}

	return nil
}

func writeCSV(w io.Writer, table report.Table) error {
	out := csv.NewWriter(w)

	if err := out.Write(table.Columns); err != nil {
		return fmt.Errorf("write %s header: %w", table.Name, err)
	}

	if err := out.WriteAll(table.Rows()); err != nil {
		return fmt.Errorf("write %s rows: %w", table.Name, err)
	}

	return nil
}
