package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/jsontree"
)

var (
	entityKeys   = []string{"Entity", "Source", "Table"}
	propertyKeys = []string{"Property", "Column", "Field"}
	whereKeys    = []string{"Where", "Condition"}
)

// SummarizeFilters renders the filter conditions saved in a bookmark. Each
// condition is isolated: a condition that fails to render is replaced by its
// compact JSON text. Conditions that render to nothing are omitted.
func SummarizeFilters(conditions []gjson.Result) []string {
	return summarizeEach(conditions, SummarizeFilter)
}

func summarizeEach(conditions []gjson.Result, summarize func(gjson.Result) string) []string {
	var parts []string

	for _, condition := range conditions {
		if !condition.IsObject() {
			continue
		}

		if part := summarizeIsolated(condition, summarize); part != "" {
			parts = append(parts, part)
		}
	}

	return parts
}

func summarizeIsolated(condition gjson.Result, summarize func(gjson.Result) string) (part string) {
	defer func() {
		if r := recover(); r != nil {
			part = rawText(condition)
		}
	}()

	return summarize(condition)
}

// SummarizeFilter renders one bookmark filter condition heuristically. The
// column is taken from the first entity-like and property-like leaves, the
// values from the top-level Values list or else any Literal.Value leaf, and
// the operator from the value count, the filter mode, and any negation marker
// in the condition. A negated single value renders with <>.
func SummarizeFilter(condition gjson.Result) string {
	column := summaryColumn(condition)
	values := summaryValues(condition)
	op := summaryOperator(condition, len(values))

	switch {
	case op.IsBetween() && len(values) == 2:
		return column + " " + string(op) + " " + RenderLiteral(values[0]) + " AND " + RenderLiteral(values[1])
	case (op == OpIn || op == OpNotIn) && len(values) > 0:
		return column + " " + string(op) + " " + RenderList(values)
	case (op == OpEquals || op == OpNotEquals) && len(values) > 0:
		return column + " " + string(op) + " " + RenderLiteral(values[0])
	default:
		return column
	}
}

func summaryColumn(condition gjson.Result) string {
	var entity, property string

	for path, leaf := range jsontree.Leaves(condition) {
		last := path.Last()

		if entity == "" && matchesAny(last, entityKeys) && jsontree.Truthy(leaf) {
			entity = jsontree.Text(leaf)

			if strings.EqualFold(last, "Source") {
				if resolved, ok := BuildAliasMap(condition).Resolve(entity); ok {
					entity = resolved
				}
			}
		}

		if property == "" && matchesAny(last, propertyKeys) && jsontree.Truthy(leaf) {
			property = jsontree.Text(leaf)
		}
	}

	entity = FormatEntity(entity)

	switch {
	case entity != "" && property != "":
		return entity + "." + property
	case entity != "":
		return entity
	default:
		return property
	}
}

func summaryValues(condition gjson.Result) []string {
	var raw []gjson.Result

	if top, ok := jsontree.LookupAny(condition, "Values"); ok && top.IsArray() {
		raw = flattenValues(top)
	}

	if len(raw) == 0 {
		for path, leaf := range jsontree.Leaves(condition) {
			if strings.EqualFold(path.Last(), "Value") && path.Contains("Literal") {
				raw = append(raw, leaf)
			}
		}
	}

	return ValidValues(raw)
}

func flattenValues(node gjson.Result) []gjson.Result {
	switch {
	case node.IsArray():
		var out []gjson.Result

		for _, item := range node.Array() {
			out = append(out, flattenValues(item)...)
		}

		return out
	case node.IsObject():
		if literal, ok := jsontree.Object(node, "Literal"); ok && jsontree.HasAny(literal, "Value") {
			return []gjson.Result{member(literal, "Value")}
		}

		if jsontree.HasAny(node, "Value") {
			return []gjson.Result{member(node, "Value")}
		}

		return nil
	default:
		return []gjson.Result{node}
	}
}

func summaryOperator(condition gjson.Result, count int) Operator {
	mode, _ := jsontree.FirstLeaf(condition, "mode")

	var texts []string

	for path, leaf := range jsontree.Leaves(condition) {
		if leaf.Type == gjson.String && matchesAny(path.Last(), whereKeys) {
			texts = append(texts, leaf.Str)
		}
	}

	blob := " " + strings.ToLower(strings.Join(texts, " ")) + " "
	negative := strings.Contains(blob, " not ") || hasNegationSegment(condition)

	var op Operator

	switch {
	case count == 2 && (strings.EqualFold(jsontree.Text(mode), "between") || strings.Contains(blob, " between ")):
		op = OpBetween
	case strings.Contains(blob, " in ") || count > 1:
		op = OpIn
	case count == 1:
		op = OpEquals
	default:
		return ""
	}

	if negative {
		switch op {
		case OpBetween:
			return OpNotBetween
		case OpIn:
			return OpNotIn
		default:
			return OpNotEquals
		}
	}

	return op
}

// hasNegationSegment reports whether any leaf sits below a Not or NotIn key.
func hasNegationSegment(condition gjson.Result) bool {
	for path := range jsontree.Leaves(condition) {
		for _, segment := range path {
			canonical := jsontree.Canonical(segment)
			if canonical == "not" || canonical == "notin" {
				return true
			}
		}
	}

	return false
}

func matchesAny(key string, candidates []string) bool {
	for _, candidate := range candidates {
		if strings.EqualFold(key, candidate) {
			return true
		}
	}

	return false
}

func rawText(node gjson.Result) string {
	var buf bytes.Buffer

	err := json.Compact(&buf, []byte(node.Raw))
	if err != nil {
		return fmt.Sprintf("%q", node.Raw)
	}

	return buf.String()
}
