package report_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/report"
)

func TestResolveActionNames(t *testing.T) {
	t.Parallel()

	maps := report.NameMaps{
		PageNames:     map[string]string{"p1": "Overview", "p2": "Details"},
		BookmarkNames: map[string]string{"bm1": "Executive View"},
	}

	tests := []struct {
		name   string
		action string
		want   []string
	}{
		{name: "bookmark", action: "Bookmark: bm1", want: []string{"Bookmark: Executive View"}},
		{name: "unresolved bookmark", action: "Bookmark: bm9", want: nil},
		{name: "tooltip uses page map", action: "Tooltip: p2", want: []string{"Tooltip: Details"}},
		{
			name:   "navigation and bookmark",
			action: "Page Navigation: p1; Bookmark: bm1",
			want:   []string{"Page Navigation: Overview", "Bookmark: Executive View"},
		},
		{name: "label spelling is folded", action: "page_navigation: p1", want: []string{"Page Navigation: Overview"}},
		{name: "unknown label", action: "Drillthrough: p1", want: nil},
		{name: "bare label", action: "Bookmark", want: nil},
		{name: "empty", action: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, maps.ResolveActionNames(tt.action))
		})
	}
}

func TestBuildNameMaps_FirstOccurrenceWins(t *testing.T) {
	t.Parallel()

	visuals := []report.VisualRecord{
		{PageID: "p1", PageName: "Overview", VisualID: "v1"},
		{PageID: "p1", PageName: "Renamed", VisualID: "v1"},
		{PageID: "", PageName: "Orphan", VisualID: ""},
	}
	bookmarks := []report.BookmarkVisualRecord{
		{BookmarkID: "bm1", BookmarkName: "First"},
		{BookmarkID: "bm1", BookmarkName: "Second"},
	}

	maps := report.BuildNameMaps(visuals, bookmarks)

	assert.Equal(t, map[string]string{"p1": "Overview"}, maps.PageNames)
	assert.Equal(t, map[string]string{"v1": "Overview"}, maps.VisualPages)
	assert.Equal(t, map[string]string{"bm1": "First"}, maps.BookmarkNames)
}

func TestLink(t *testing.T) {
	t.Parallel()

	visuals := []report.VisualRecord{
		{PageID: "p1", PageName: "Overview", VisualID: "v1", VisualType: "actionButton", Actions: []string{"Bookmark: bm1"}},
		{PageID: "p2", PageName: "Details", VisualID: "v2", VisualType: "card"},
	}
	bookmarks := []report.BookmarkVisualRecord{
		{BookmarkID: "bm1", BookmarkName: "Executive View", VisualID: "v2", VisualType: "card"},
		{BookmarkID: "bm1", BookmarkName: "Executive View", VisualID: "v404", VisualType: "card"},
	}

	linkedVisuals, linkedBookmarks := report.Link(visuals, bookmarks)

	require.Len(t, linkedVisuals, 2)
	require.Len(t, linkedBookmarks, 2)

	assert.Equal(t, []string{"Bookmark: Executive View"}, linkedVisuals[0].ActionNames)
	assert.Empty(t, linkedVisuals[1].ActionNames)
	assert.Equal(t, "Details", linkedBookmarks[0].PageName)
	assert.Empty(t, linkedBookmarks[1].PageName)

	if diff := cmp.Diff([]string{"Bookmark: bm1"}, linkedVisuals[0].Actions); diff != "" {
		t.Errorf("actions changed (-want +got):\n%s", diff)
	}
}

func TestLink_DoesNotModifyInputs(t *testing.T) {
	t.Parallel()

	visuals := []report.VisualRecord{
		{PageID: "p1", PageName: "Overview", VisualID: "v1", Actions: []string{"Tooltip: p1"}},
	}
	bookmarks := []report.BookmarkVisualRecord{
		{BookmarkID: "bm1", VisualID: "v1", AppliedFilters: []string{"Geo.Region = 'East'"}},
	}

	linkedVisuals, linkedBookmarks := report.Link(visuals, bookmarks)
	linkedVisuals[0].Actions[0] = "changed"
	linkedBookmarks[0].AppliedFilters[0] = "changed"

	assert.Nil(t, visuals[0].ActionNames)
	assert.Empty(t, bookmarks[0].PageName)
	assert.Equal(t, "Tooltip: p1", visuals[0].Actions[0])
	assert.Equal(t, "Geo.Region = 'East'", bookmarks[0].AppliedFilters[0])
}
