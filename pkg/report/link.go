package report

import (
	"slices"

	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/extract"
	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/jsontree"
)

// NameMaps resolves identifiers found in one table to display names taken
// from the other.
type NameMaps struct {
	// PageNames maps page identifiers to page display names.
	PageNames map[string]string
	// VisualPages maps visual identifiers to the display name of their page.
	VisualPages map[string]string
	// BookmarkNames maps bookmark identifiers to bookmark display names.
	BookmarkNames map[string]string
}

// BuildNameMaps scans both tables once. The first occurrence of each
// identifier wins.
func BuildNameMaps(visuals []VisualRecord, bookmarks []BookmarkVisualRecord) NameMaps {
	maps := NameMaps{
		PageNames:     make(map[string]string),
		VisualPages:   make(map[string]string),
		BookmarkNames: make(map[string]string),
	}

	for _, v := range visuals {
		setOnce(maps.PageNames, v.PageID, v.PageName)
		setOnce(maps.VisualPages, v.VisualID, v.PageName)
	}

	for _, b := range bookmarks {
		setOnce(maps.BookmarkNames, b.BookmarkID, b.BookmarkName)
	}

	return maps
}

// Link returns enriched copies of both tables: bookmark visuals gain the name
// of the page their visual sits on, and page visuals gain action names
// resolved from their action descriptions. The inputs are not modified.
func Link(visuals []VisualRecord, bookmarks []BookmarkVisualRecord) ([]VisualRecord, []BookmarkVisualRecord) {
	maps := BuildNameMaps(visuals, bookmarks)

	linkedVisuals := make([]VisualRecord, len(visuals))

	for i, v := range visuals {
		v.Actions = slices.Clone(v.Actions)
		v.Columns = slices.Clone(v.Columns)
		v.Filters = slices.Clone(v.Filters)
		v.ActionNames = maps.ResolveActionNames(v.ActionType())
		linkedVisuals[i] = v
	}

	linkedBookmarks := make([]BookmarkVisualRecord, len(bookmarks))

	for i, b := range bookmarks {
		b.AppliedFilters = slices.Clone(b.AppliedFilters)
		b.SlicerSelections = slices.Clone(b.SlicerSelections)
		b.PageName = maps.VisualPages[b.VisualID]
		linkedBookmarks[i] = b
	}

	return linkedVisuals, linkedBookmarks
}

// ResolveActionNames parses an action description string and replaces each
// target identifier with its display name. Tooltip and page navigation
// targets resolve through the page map, bookmark targets through the
// bookmark map. Targets that do not resolve are dropped.
func (m NameMaps) ResolveActionNames(actionType string) []string {
	var names []string

	for _, action := range extract.ParseActions(actionType) {
		var lookup map[string]string

		switch {
		case jsontree.SameLabel(action.Label, extract.LabelTooltip),
			jsontree.SameLabel(action.Label, extract.LabelPageNavigation):
			lookup = m.PageNames
		case jsontree.SameLabel(action.Label, extract.LabelBookmark):
			lookup = m.BookmarkNames
		default:
			continue
		}

		resolved := lookup[action.Target]
		if resolved == "" {
			continue
		}

		names = append(names, extract.FormatAction(canonicalLabel(action.Label), resolved))
	}

	return names
}

func canonicalLabel(label string) string {
	for _, known := range []string{extract.LabelTooltip, extract.LabelPageNavigation, extract.LabelBookmark} {
		if jsontree.SameLabel(label, known) {
			return known
		}
	}

	return label
}

func setOnce(m map[string]string, key, value string) {
	if key == "" {
		return
	}

	if _, exists := m[key]; !exists {
		m[key] = value
	}
}
