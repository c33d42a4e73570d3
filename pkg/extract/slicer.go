package extract

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/jsontree"
)

// SlicerSelections renders the selections a bookmark saved for a slicer
// visual. Selections live under
// singleVisual.objects.merge.general[].properties.filter.filter.Where[].Condition.In;
// each In block yields "Property = 'v'", "Property IN [...]", or the bare
// property when nothing is selected.
func SlicerSelections(visual gjson.Result) []string {
	merge, _ := jsontree.Lookup(visual, "singleVisual", "objects", "merge")
	general, _ := jsontree.LookupAny(merge, "general")

	var selections []string

	for _, entry := range jsontree.Items(general) {
		filter, ok := jsontree.Lookup(entry, "properties", "filter", "filter")
		if !ok || !jsontree.Truthy(filter) {
			continue
		}

		where, _ := jsontree.LookupAny(filter, "Where")

		for _, clause := range jsontree.Items(where) {
			in, found := jsontree.Lookup(clause, "Condition", "In")
			if !found || !jsontree.Truthy(in) {
				continue
			}

			if selection := slicerSelection(in); selection != "" {
				selections = append(selections, selection)
			}
		}
	}

	return selections
}

func slicerSelection(in gjson.Result) string {
	var property string

	expressions, _ := jsontree.LookupAny(in, "Expressions")
	if items := jsontree.Items(expressions); len(items) > 0 {
		name, _ := jsontree.Lookup(items[0], "Column", "Property")
		property = jsontree.Text(name)
	}

	if property == "" {
		return ""
	}

	values, _ := jsontree.LookupAny(in, "Values")
	selected := literalValues(values)

	switch len(selected) {
	case 0:
		return property
	case 1:
		return property + " " + string(OpEquals) + " " + RenderLiteral(selected[0])
	default:
		return property + " " + string(OpIn) + " " + RenderList(selected)
	}
}

// literalValues flattens nested Literal.Value wrappers, dropping null
// sentinels.
func literalValues(node gjson.Result) []string {
	var out []string

	switch {
	case node.IsArray():
		for _, item := range node.Array() {
			out = append(out, literalValues(item)...)
		}
	case node.IsObject():
		value, ok := jsontree.Lookup(node, "Literal", "Value")
		if ok && !IsNullSentinel(jsontree.Text(value)) {
			out = append(out, jsontree.Text(value))
		}
	}

	return out
}

// DisplayMode returns the display mode a bookmark saved for a visual. The
// singleVisual.objects.display.mode member is read first, as a literal or a
// plain string; otherwise the first string leaf named "mode" anywhere in the
// visual is used.
func DisplayMode(visual gjson.Result) string {
	if mode, ok := jsontree.Lookup(visual, "singleVisual", "objects", "display", "mode"); ok {
		switch {
		case mode.IsObject():
			if literal, found := jsontree.Lookup(mode, "expr", "Literal", "Value"); found {
				return strings.Trim(jsontree.Text(literal), "'")
			}
		case mode.Type == gjson.String:
			return mode.Str
		}
	}

	if mode, ok := jsontree.FirstLeaf(visual, "mode"); ok && mode.Type == gjson.String {
		return mode.Str
	}

	return ""
}
