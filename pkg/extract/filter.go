package extract

import (
	"github.com/tidwall/gjson"

	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/jsontree"
)

// VisualFilters renders every filter condition declared in a visual document.
// Two shapes are scanned: entries of a "filters" list, each carrying its own
// "field" hint and "filter" container, and standalone "filter" objects with an
// optional sibling "field". The merged result keeps first-seen order without
// duplicates.
func VisualFilters(doc gjson.Result, aliases AliasMap) []string {
	var predicates []string

	for node := range jsontree.Containers(doc) {
		filters, ok := jsontree.LookupAny(node, "filters")
		if !ok || !filters.IsArray() {
			continue
		}

		for _, entry := range filters.Array() {
			if !entry.IsObject() {
				continue
			}

			field, _ := jsontree.LookupAny(entry, "field")
			if !jsontree.Truthy(field) {
				field = entry
			}

			container, _ := jsontree.LookupAny(entry, "filter")
			if !jsontree.Truthy(container) {
				container = entry
			}

			hint, _ := ResolveColumn(field, aliases)
			predicates = append(predicates, filterPredicates(container, hint, aliases)...)
		}
	}

	for node := range jsontree.Containers(doc) {
		container, ok := jsontree.Object(node, "filter")
		if !ok {
			continue
		}

		var hint string

		if field, found := jsontree.Object(node, "field"); found {
			hint, _ = ResolveColumn(field, aliases)
		}

		predicates = append(predicates, filterPredicates(container, hint, aliases)...)
	}

	return Dedupe(predicates)
}

// filterPredicates renders each Where clause of a filter container. The
// column is the hint when given, else the first column found in the
// condition.
func filterPredicates(container gjson.Result, hint string, aliases AliasMap) []string {
	where, ok := jsontree.LookupAny(container, "Where")
	if !ok {
		return nil
	}

	var predicates []string

	for _, clause := range jsontree.Items(where) {
		condition, _ := jsontree.LookupAny(clause, "Condition")
		if !condition.IsObject() {
			continue
		}

		column := hint
		if column == "" {
			column, _ = ConditionColumn(condition, aliases)
		}

		if predicate, rendered := ConditionPredicate(column, condition); rendered {
			predicates = append(predicates, predicate)
		}
	}

	return predicates
}
