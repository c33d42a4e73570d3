package extract

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/jsontree"
)

// fieldWrappers lists the keys a field reference may be nested under, in
// priority order.
var fieldWrappers = []string{"Column", "Measure", "Aggregation", "Field"}

// AliasMap maps a source alias declared in a From clause to its entity name.
type AliasMap map[string]string

// BuildAliasMap scans every From declaration in doc. A From node is either a
// single object or a list of objects carrying Name and Entity. The first
// declaration of an alias wins.
func BuildAliasMap(doc gjson.Result) AliasMap {
	aliases := make(AliasMap)

	for node := range jsontree.Containers(doc) {
		from, ok := jsontree.LookupAny(node, "From")
		if !ok {
			continue
		}

		for _, source := range jsontree.Items(from) {
			name, _ := jsontree.LookupAny(source, "Name")
			entity, _ := jsontree.LookupAny(source, "Entity")

			if !jsontree.Truthy(name) || !jsontree.Truthy(entity) {
				continue
			}

			alias := jsontree.Text(name)
			if _, exists := aliases[alias]; !exists {
				aliases[alias] = FormatEntity(jsontree.Text(entity))
			}
		}
	}

	return aliases
}

// Resolve returns the entity for alias.
func (m AliasMap) Resolve(alias string) (string, bool) {
	entity, ok := m[alias]

	return entity, ok && entity != ""
}

// FormatEntity expands a dotted multi-part entity name into space-separated
// words. Names that already contain a space, or no dot, are returned as is.
func FormatEntity(name string) string {
	if !strings.Contains(name, ".") || strings.Contains(name, " ") {
		return name
	}

	parts := make([]string, 0, strings.Count(name, ".")+1)

	for part := range strings.SplitSeq(name, ".") {
		if part != "" {
			parts = append(parts, part)
		}
	}

	return strings.Join(parts, " ")
}

// UnwrapFieldLike returns the first object nested under a Column, Measure,
// Aggregation, or Field key, or node itself when none wraps it.
func UnwrapFieldLike(node gjson.Result) gjson.Result {
	for _, wrapper := range fieldWrappers {
		if inner, ok := jsontree.Object(node, wrapper); ok {
			return inner
		}
	}

	return node
}

// ResolveColumn renders a field reference as "Entity.Property". The entity
// comes from Expression.SourceRef.Entity, then from the SourceRef alias via
// aliases, then from an Entity attribute on the field itself. Only the
// property is returned when no entity resolves. Purely numeric properties are
// sort-index hints and never resolve.
func ResolveColumn(node gjson.Result, aliases AliasMap) (string, bool) {
	field := UnwrapFieldLike(node)
	if !field.IsObject() {
		return "", false
	}

	property, hasProperty := jsontree.LookupAny(field, "Property")
	if hasProperty && isDigits(jsontree.Text(property)) {
		return "", false
	}

	entity := fieldEntity(field, aliases)

	switch {
	case entity != "" && jsontree.Truthy(property):
		return FormatEntity(entity) + "." + jsontree.Text(property), true
	case jsontree.Truthy(property):
		return jsontree.Text(property), true
	default:
		return "", false
	}
}

func fieldEntity(field gjson.Result, aliases AliasMap) string {
	sourceRef, _ := jsontree.Lookup(field, "Expression", "SourceRef")

	entity, _ := jsontree.LookupAny(sourceRef, "Entity")
	if jsontree.Truthy(entity) {
		return jsontree.Text(entity)
	}

	source, _ := jsontree.LookupAny(sourceRef, "Source")
	if jsontree.Truthy(source) {
		if resolved, ok := aliases.Resolve(jsontree.Text(source)); ok {
			return resolved
		}
	}

	direct, _ := jsontree.LookupAny(field, "Entity")
	if jsontree.Truthy(direct) {
		return jsontree.Text(direct)
	}

	return ""
}

// VisualColumns collects every column a visual references, in first-seen
// order. Candidates are objects under "field" or "Aggregation", entries of a
// "fields" list, and bare nodes that carry both an entity or source reference
// and a Property.
func VisualColumns(doc gjson.Result, aliases AliasMap) []string {
	var columns []string

	add := func(candidate gjson.Result) {
		if column, ok := ResolveColumn(candidate, aliases); ok {
			columns = append(columns, column)
		}
	}

	for node := range jsontree.Containers(doc) {
		for _, key := range []string{"field", "Aggregation"} {
			if sub, ok := jsontree.Object(node, key); ok {
				add(sub)
			}
		}

		if fields, ok := jsontree.LookupAny(node, "fields"); ok && fields.IsArray() {
			for _, item := range fields.Array() {
				if item.IsObject() {
					add(item)
				}
			}
		}

		if isBareColumn(node) {
			add(node)
		}
	}

	return Dedupe(columns)
}

func isBareColumn(node gjson.Result) bool {
	if _, ok := jsontree.LookupAny(node, "Property"); !ok {
		return false
	}

	sourceRef, _ := jsontree.Lookup(node, "Expression", "SourceRef")
	if _, ok := jsontree.LookupAny(sourceRef, "Entity", "Source"); ok {
		return true
	}

	_, ok := jsontree.LookupAny(node, "Entity")

	return ok
}

// ConditionColumn returns the first resolvable Column reference inside a
// condition tree.
func ConditionColumn(condition gjson.Result, aliases AliasMap) (string, bool) {
	for node := range jsontree.Containers(condition) {
		column, ok := jsontree.Object(node, "Column")
		if !ok {
			continue
		}

		if resolved, found := ResolveColumn(column, aliases); found {
			return resolved, true
		}
	}

	return "", false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
