package extract

import (
	"github.com/tidwall/gjson"

	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/jsontree"
)

// Operator is a predicate comparison token.
type Operator string

// The complete set of operators a rendered predicate may carry.
const (
	OpEquals     Operator = "="
	OpNotEquals  Operator = "<>"
	OpIn         Operator = "IN"
	OpNotIn      Operator = "NOT IN"
	OpBetween    Operator = "BETWEEN"
	OpNotBetween Operator = "NOT BETWEEN"
)

// conditionWrappers are the directly recognized condition shapes, in
// precedence order.
var conditionWrappers = []struct {
	key string
	op  Operator
}{
	{key: "In", op: OpIn},
	{key: "Equals", op: OpEquals},
	{key: "Between", op: OpBetween},
	{key: "NotIn", op: OpNotIn},
}

// IsBetween reports whether op is BETWEEN or NOT BETWEEN.
func (op Operator) IsBetween() bool {
	return op == OpBetween || op == OpNotBetween
}

// Negate returns the operator a Not wrapper turns op into. Equality negates
// to NOT IN, so a negated single value renders as an exclusion set.
func Negate(op Operator) Operator {
	switch op {
	case OpIn, OpEquals:
		return OpNotIn
	case OpNotIn:
		return OpIn
	case OpBetween:
		return OpNotBetween
	case OpNotBetween:
		return OpBetween
	case OpNotEquals:
		return OpEquals
	default:
		return ""
	}
}

// ParseCondition classifies a condition node and returns its operator and
// raw operand values. The operator is empty when no known shape matches.
// Not wrappers are unwrapped recursively and negate the inner operator;
// Expression wrappers are transparent.
func ParseCondition(node gjson.Result) (Operator, []gjson.Result) {
	if !node.IsObject() {
		return "", nil
	}

	for _, wrapper := range conditionWrappers {
		inner, ok := jsontree.LookupAny(node, wrapper.key)
		if !ok {
			continue
		}

		values, _ := jsontree.LookupAny(inner, "Values")
		if !jsontree.Truthy(values) {
			values = inner
		}

		return wrapper.op, Literals(values)
	}

	if not, ok := jsontree.Object(node, "Not"); ok {
		inner, _ := jsontree.LookupAny(not, "Expression")
		if !jsontree.Truthy(inner) {
			inner = not
		}

		if op, values := ParseCondition(inner); op != "" {
			return Negate(op), values
		}
	}

	if expression, ok := jsontree.Object(node, "Expression"); ok {
		return ParseCondition(expression)
	}

	return "", nil
}

// RenderPredicate binds op and values to column. values must already be
// filtered through [IsValidFilterValue]. The boolean is false when the
// condition carries nothing worth rendering.
func RenderPredicate(column string, op Operator, values []string) (string, bool) {
	if op == "" || column == "" {
		return "", false
	}

	if len(values) == 0 && !op.IsBetween() {
		return "", false
	}

	switch {
	case (op == OpEquals || op == OpIn) && len(values) == 1:
		return column + " " + string(OpEquals) + " " + RenderLiteral(values[0]), true
	case op == OpIn || op == OpNotIn:
		return column + " " + string(op) + " " + RenderList(values), true
	case op.IsBetween() && len(values) >= 2:
		return column + " " + string(op) + " " + RenderLiteral(values[0]) + " AND " + RenderLiteral(values[1]), true
	default:
		return column + " " + string(op) + " " + RenderList(values), true
	}
}

// ConditionPredicate interprets condition and renders it against column.
func ConditionPredicate(column string, condition gjson.Result) (string, bool) {
	op, raw := ParseCondition(condition)

	return RenderPredicate(column, op, ValidValues(raw))
}
