package report

import (
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/extract"
	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/jsontree"
)

const slicerType = "slicer"

// BookmarkID derives a bookmark identifier from its file name by removing the
// extension and one further pseudo-extension ("abc.bookmark.json" -> "abc").
func BookmarkID(fileName string) string {
	base := filepath.Base(fileName)

	return stripExt(stripExt(base))
}

// stripExt removes the final extension. A name whose only dot is the leading
// one has no extension.
func stripExt(name string) string {
	ext := filepath.Ext(name)
	if ext == "" || ext == name || strings.Trim(name[:len(name)-len(ext)], ".") == "" {
		return name
	}

	return strings.TrimSuffix(name, ext)
}

// BuildBookmark extracts one record per visual saved in the active section of
// a bookmark document.
func BuildBookmark(doc gjson.Result, fileName string) []BookmarkVisualRecord {
	id := BookmarkID(fileName)
	name := text(doc, "displayName")
	selected := selectedVisuals(doc)

	state, _ := jsontree.LookupAny(doc, "explorationState")
	active := text(state, "activeSection")
	sections, _ := jsontree.LookupAny(state, "sections")
	section, _ := jsontree.LookupAny(sections, active)
	containers, _ := jsontree.LookupAny(section, "visualContainers")

	if !containers.IsObject() {
		return nil
	}

	var records []BookmarkVisualRecord

	containers.ForEach(func(key, visual gjson.Result) bool {
		records = append(records, bookmarkVisual(id, name, key.Str, visual, selected))

		return true
	})

	return records
}

func bookmarkVisual(bookmarkID, bookmarkName, visualID string, visual gjson.Result, selected map[string]bool) BookmarkVisualRecord {
	visualType := bookmarkVisualType(visual)

	filters, _ := jsontree.Lookup(visual, "filters", "byExpr")

	var conditions []gjson.Result
	if filters.IsArray() {
		conditions = filters.Array()
	}

	record := BookmarkVisualRecord{
		BookmarkID:     bookmarkID,
		BookmarkName:   bookmarkName,
		VisualID:       visualID,
		VisualType:     visualType,
		Selected:       selected[visualID],
		Mode:           extract.DisplayMode(visual),
		AppliedFilters: extract.SummarizeFilters(conditions),
	}

	if jsontree.SameLabel(visualType, slicerType) {
		record.SlicerSelections = extract.SlicerSelections(visual)
	}

	return record
}

func bookmarkVisualType(visual gjson.Result) string {
	if value, ok := jsontree.Lookup(visual, "singleVisual", "visualType"); ok && jsontree.Truthy(value) {
		return jsontree.Text(value)
	}

	if value := text(visual, "visualType"); value != "" {
		return value
	}

	return text(visual, "type")
}

// selectedVisuals unions the targetVisualNames lists found under options, at
// the top level, and under explorationState.options.
func selectedVisuals(doc gjson.Result) map[string]bool {
	selected := make(map[string]bool)

	lists := [][]string{
		{"options", "targetVisualNames"},
		{"targetVisualNames"},
		{"explorationState", "options", "targetVisualNames"},
	}

	for _, path := range lists {
		names, ok := jsontree.Lookup(doc, path...)
		if !ok || !names.IsArray() {
			continue
		}

		for _, name := range names.Array() {
			selected[jsontree.Text(name)] = true
		}
	}

	return selected
}
