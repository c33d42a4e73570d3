package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/extract"
	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/jsontree"
)

const navigationButton = `{
	"name": "btn1",
	"visual": {
		"visualType": "actionButton",
		"visualContainerObjects": {"visualLink": [{"properties": {
			"show": {"expr": {"Literal": {"Value": "true"}}},
			"type": {"Literal": {"Value": "'PageNavigation'"}},
			"navigationSection": {"Literal": {"Value": "'ReportSection2'"}}
		}}]}
	}
}`

func TestActions_PageNavigationButton(t *testing.T) {
	t.Parallel()

	doc := jsontree.MustParse(navigationButton)

	assert.Equal(t, []string{"Page Navigation: ReportSection2"}, extract.Actions(doc, "actionButton"))
	assert.Equal(t, []string{"Page Navigation: ReportSection2"}, extract.Actions(doc, "Action_Button"))
	assert.Empty(t, extract.Actions(doc, "shape"), "link actions are only read for action buttons")
}

func TestActions_BookmarkButtonWithTooltip(t *testing.T) {
	t.Parallel()

	doc := jsontree.MustParse(`{"visual": {"visualType": "actionButton", "objects": {"visualLink": {"properties": {
		"type": {"expr": {"Literal": {"Value": "'Bookmark'"}}},
		"bookmark": {"expr": {"Literal": {"Value": "'Bookmark1a2b'"}}},
		"tooltip": {"expr": {"Literal": {"Value": "'Go to overview'"}}}
	}}}}}`)

	assert.Equal(t, []string{"Bookmark: Bookmark1a2b", "Tooltip: Go to overview"}, extract.Actions(doc, "actionButton"))
	assert.Equal(t, []string{"Tooltip: Go to overview", "Bookmark: Bookmark1a2b"}, extract.LinkActions(doc))
}

func TestLinkActions_BareLabels(t *testing.T) {
	t.Parallel()

	doc := jsontree.MustParse(`{"visualLink": [
		{"properties": {"type": {"expr": {"Literal": {"Value": "'page_navigation'"}}}}},
		{"type": "Bookmark"},
		{"properties": {"type": {"Value": "WebUrl"}}},
		"ignored"
	]}`)

	assert.Equal(t, []string{"Page Navigation", "Bookmark"}, extract.LinkActions(doc))
}

func TestLegacyBookmark(t *testing.T) {
	t.Parallel()

	doc := jsontree.MustParse(`{"a": {"bookmark": {"show": true}}, "b": [{"Bookmark": {"expr": {"Literal": {"Value": "'bm42'"}}}}]}`)

	id, ok := extract.LegacyBookmark(doc)
	require.True(t, ok)
	assert.Equal(t, "bm42", id)

	_, ok = extract.LegacyBookmark(jsontree.MustParse(`{"bookmark": {"expr": {"Literal": {"Value": ""}}}}`))
	assert.False(t, ok)
}

func TestLegacyBookmark_SkipsEmptyPointer(t *testing.T) {
	t.Parallel()

	doc := jsontree.MustParse(`{
		"a": {"bookmark": {"expr": {"Literal": {"Value": "''"}}}},
		"b": {"bookmark": {"expr": {"Literal": {"Value": "'bm9'"}}}}
	}`)

	id, ok := extract.LegacyBookmark(doc)
	require.True(t, ok)
	assert.Equal(t, "bm9", id)
	assert.Equal(t, []string{"Bookmark: bm9"}, extract.Actions(doc, "card"))

	_, ok = extract.LegacyBookmark(jsontree.MustParse(`{"bookmark": {"expr": {"Literal": {"Value": "''"}}}}`))
	assert.False(t, ok)
}

func TestLegacyTooltip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "section literal",
			doc:  `{"visual": {"objects": {"visualTooltip": [{"properties": {"section": {"expr": {"Literal": {"Value": "'ReportSection9'"}}}}}]}}}`,
			want: "ReportSection9",
		},
		{name: "section value", doc: `{"tooltip": [{"properties": {"section": {"value": "TipPage"}}}]}`, want: "TipPage"},
		{name: "bare string", doc: `{"tooltip": ["", "'TipPage'"]}`, want: "TipPage"},
		{name: "object literal", doc: `{"tooltip": {"expr": {"Literal": {"Value": "'Tip'"}}}}`, want: "Tip"},
		{name: "object value", doc: `{"tooltip": {"value": "'Tip'"}}`, want: "Tip"},
		{name: "nested after empty", doc: `{"tooltip": {"show": true}, "child": {"visualTooltip": {"value": "Deep"}}}`, want: "Deep"},
		{name: "none", doc: `{"tooltip": {"show": true}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := extract.LegacyTooltip(jsontree.MustParse(tt.doc))
			assert.Equal(t, tt.want != "", ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseActions(t *testing.T) {
	t.Parallel()

	actions := extract.ParseActions("Bookmark: bm1; Page Navigation; Tooltip: a:b ;  ")

	assert.Equal(t, []extract.Action{
		{Label: "Bookmark", Target: "bm1"},
		{Label: "Tooltip", Target: "a:b"},
	}, actions)
	assert.Empty(t, extract.ParseActions(""))
}

func TestAction_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Bookmark: bm1", extract.Action{Label: extract.LabelBookmark, Target: "bm1"}.String())
	assert.Equal(t, "Page Navigation", extract.Action{Label: extract.LabelPageNavigation}.String())
}

func TestFormatAction(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Tooltip: p3", extract.FormatAction(extract.LabelTooltip, "p3"))
	assert.Equal(t, "Bookmark", extract.FormatAction(extract.LabelBookmark, ""))
}
