package export

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/report"
)

const (
	defaultSheet = "Sheet1"
	minColWidth  = 10
	maxColWidth  = 80
)

// RenderXLSX writes one worksheet per table, in order. Each sheet has a bold
// frozen header row with an auto filter.
func RenderXLSX(w io.Writer, tables []report.Table) error {
	book := excelize.NewFile()
	defer book.Close() //nolint:errcheck // in-memory workbook.

	headerStyle, err := book.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, table := range tables {
		if i == 0 {
			err = book.SetSheetName(defaultSheet, table.Name)
		} else {
			_, err = book.NewSheet(table.Name)
		}

		if err != nil {
			return fmt.Errorf("create sheet %s: %w", table.Name, err)
		}

		if sheetErr := writeSheet(book, table, headerStyle); sheetErr != nil {
			return fmt.Errorf("sheet %s: %w", table.Name, sheetErr)
		}
	}

	book.SetActiveSheet(0)

	if writeErr := book.Write(w); writeErr != nil {
		return fmt.Errorf("write workbook: %w", writeErr)
	}

	return nil
}

func writeSheet(book *excelize.File, table report.Table, headerStyle int) error {
	sheet := table.Name

	header := table.Columns
	if err := book.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	widths := make([]int, len(table.Columns))
	for i, column := range table.Columns {
		widths[i] = utf8.RuneCountInString(column)
	}

	for i, row := range table.Rows() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		if err := book.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}

		for j, value := range row {
			widths[j] = max(widths[j], utf8.RuneCountInString(value))
		}
	}

	if len(table.Columns) == 0 {
		return nil
	}

	last, err := excelize.CoordinatesToCellName(len(table.Columns), 1)
	if err != nil {
		return err
	}

	if err := book.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	if err := book.AutoFilter(sheet, "A1:"+last, nil); err != nil {
		return err
	}

	err = book.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	if err != nil {
		return err
	}

	for i, width := range widths {
		name, nameErr := excelize.ColumnNumberToName(i + 1)
		if nameErr != nil {
			return nameErr
		}

		if err := book.SetColWidth(sheet, name, name, float64(min(max(width+2, minColWidth), maxColWidth))); err != nil {
			return err
		}
	}

	return nil
}
