package report

import (
	"github.com/tidwall/gjson"

	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/extract"
	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/jsontree"
)

// Page identifies a report page.
type Page struct {
	ID   string
	Name string
}

// PageInfo reads the identifier and display name of a page document.
func PageInfo(doc gjson.Result) Page {
	return Page{
		ID:   text(doc, "name"),
		Name: text(doc, "displayName"),
	}
}

// BuildVisual extracts the record of one visual document placed on page.
func BuildVisual(doc gjson.Result, page Page) VisualRecord {
	aliases := extract.BuildAliasMap(doc)

	visualType, _ := jsontree.Lookup(doc, "visual", "visualType")

	return VisualRecord{
		PageID:     page.ID,
		PageName:   page.Name,
		VisualID:   text(doc, "name"),
		VisualType: jsontree.Text(visualType),
		Actions:    extract.Actions(doc, jsontree.Text(visualType)),
		Columns:    extract.VisualColumns(doc, aliases),
		Filters:    extract.VisualFilters(doc, aliases),
	}
}

func text(node gjson.Result, key string) string {
	value, ok := jsontree.LookupAny(node, key)
	if !ok || !jsontree.Truthy(value) {
		return ""
	}

	return jsontree.Text(value)
}
