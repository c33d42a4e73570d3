package export

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/report"
)

const tableCellWidth = 48

// RenderTable draws every table for a terminal, titled with its name and
// footed with its row count. Long cells wrap.
func RenderTable(w io.Writer, tables []report.Table) error {
	for i, data := range tables {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return fmt.Errorf("write separator: %w", err)
			}
		}

		tbl := table.NewWriter()
		tbl.SetOutputMirror(w)
		tbl.SetStyle(table.StyleLight)
		tbl.Style().Format.Header = text.FormatDefault
		tbl.Style().Format.Footer = text.FormatDefault
		tbl.SetTitle(data.Name)

		header := make(table.Row, len(data.Columns))
		configs := make([]table.ColumnConfig, len(data.Columns))

		for j, column := range data.Columns {
			header[j] = column
			configs[j] = table.ColumnConfig{Number: j + 1, WidthMax: tableCellWidth}
		}

		tbl.AppendHeader(header)
		tbl.SetColumnConfigs(configs)

		for _, values := range data.Rows() {
			row := make(table.Row, len(values))
			for j, value := range values {
				row[j] = value
			}

			tbl.AppendRow(row)
		}

		tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d rows", len(data.Records))})
		tbl.Render()
	}

	return nil
}
