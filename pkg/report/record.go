// Package report builds the visual and bookmark tables from parsed report
// documents and cross-links them by page and bookmark identifiers.
package report

import (
	"strings"

	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/extract"
)

// Sheet names of the two output tables.
const (
	BookmarksSheet = "Bookmarks"
	PagesSheet     = "Pages"
)

// Visual table columns.
const (
	ColPageID        = "Page ID"
	ColPageName      = "Page Name"
	ColVisualID      = "Visual ID"
	ColVisualType    = "Visual Type"
	ColActionType    = "Action Type"
	ColActionName    = "Action Name"
	ColVisualColumns = "Visual Columns"
	ColVisualFilters = "Visual Filters"
)

// Bookmark table columns.
const (
	ColBookmarkID       = "Bookmark ID"
	ColBookmarkName     = "Bookmark Name"
	ColSelectedVisual   = "Selected Visual"
	ColMode             = "Mode"
	ColAppliedFilters   = "Applied Filters"
	ColSlicerSelections = "Slicer Selections"
)

// VisualColumns is the column order of the Pages table.
var VisualColumns = []string{
	ColPageID, ColPageName, ColVisualID, ColVisualType,
	ColActionType, ColActionName, ColVisualColumns, ColVisualFilters,
}

// BookmarkColumns is the column order of the Bookmarks table.
var BookmarkColumns = []string{
	ColBookmarkID, ColBookmarkName, ColVisualID, ColPageName, ColVisualType,
	ColSelectedVisual, ColMode, ColAppliedFilters, ColSlicerSelections,
}

// Record is one flat output row keyed by column name.
type Record map[string]string

// Table is an ordered set of records sharing one column layout.
type Table struct {
	Name    string
	Columns []string
	Records []Record
}

// Row returns the values of record r in column order.
func (t Table) Row(r Record) []string {
	row := make([]string, len(t.Columns))

	for i, column := range t.Columns {
		row[i] = r[column]
	}

	return row
}

// Rows returns every record in column order.
func (t Table) Rows() [][]string {
	rows := make([][]string, len(t.Records))

	for i, r := range t.Records {
		rows[i] = t.Row(r)
	}

	return rows
}

// VisualRecord describes one visual on a page.
type VisualRecord struct {
	PageID      string   `json:"page_id"`
	PageName    string   `json:"page_name"`
	VisualID    string   `json:"visual_id"`
	VisualType  string   `json:"visual_type"`
	Actions     []string `json:"actions,omitempty"`
	ActionNames []string `json:"action_names,omitempty"`
	Columns     []string `json:"columns,omitempty"`
	Filters     []string `json:"filters,omitempty"`
}

// ActionType returns the joined action descriptions.
func (v VisualRecord) ActionType() string {
	return join(v.Actions)
}

// Record flattens the visual into a Pages row.
func (v VisualRecord) Record() Record {
	return Record{
		ColPageID:        v.PageID,
		ColPageName:      v.PageName,
		ColVisualID:      v.VisualID,
		ColVisualType:    v.VisualType,
		ColActionType:    v.ActionType(),
		ColActionName:    join(v.ActionNames),
		ColVisualColumns: join(v.Columns),
		ColVisualFilters: join(v.Filters),
	}
}

// BookmarkVisualRecord describes one visual's saved state in a bookmark.
type BookmarkVisualRecord struct {
	BookmarkID       string   `json:"bookmark_id"`
	BookmarkName     string   `json:"bookmark_name"`
	VisualID         string   `json:"visual_id"`
	PageName         string   `json:"page_name"`
	VisualType       string   `json:"visual_type"`
	Selected         bool     `json:"selected"`
	Mode             string   `json:"mode,omitempty"`
	AppliedFilters   []string `json:"applied_filters,omitempty"`
	SlicerSelections []string `json:"slicer_selections,omitempty"`
}

// Record flattens the bookmark visual into a Bookmarks row.
func (b BookmarkVisualRecord) Record() Record {
	return Record{
		ColBookmarkID:       b.BookmarkID,
		ColBookmarkName:     b.BookmarkName,
		ColVisualID:         b.VisualID,
		ColPageName:         b.PageName,
		ColVisualType:       b.VisualType,
		ColSelectedVisual:   yesNo(b.Selected),
		ColMode:             b.Mode,
		ColAppliedFilters:   join(b.AppliedFilters),
		ColSlicerSelections: join(b.SlicerSelections),
	}
}

// VisualTable builds the Pages table.
func VisualTable(visuals []VisualRecord) Table {
	records := make([]Record, len(visuals))

	for i, v := range visuals {
		records[i] = v.Record()
	}

	return Table{Name: PagesSheet, Columns: VisualColumns, Records: records}
}

// BookmarkTable builds the Bookmarks table.
func BookmarkTable(bookmarks []BookmarkVisualRecord) Table {
	records := make([]Record, len(bookmarks))

	for i, b := range bookmarks {
		records[i] = b.Record()
	}

	return Table{Name: BookmarksSheet, Columns: BookmarkColumns, Records: records}
}

func join(parts []string) string {
	return strings.Join(parts, extract.ActionSeparator)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}

	return "No"
}
