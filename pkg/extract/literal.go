package extract

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/jsontree"
)

// Literals collects the concrete values under a value-bearing subtree, in
// first-seen order without duplicates. Values come from Literal.Value wrappers
// at any depth, from scalars held directly in sequences, and from node itself
// when it is a scalar. Scalars that are plain object members (entity names,
// property names, function codes) are not values and are skipped.
func Literals(node gjson.Result) []gjson.Result {
	var (
		values []gjson.Result
		seen   = make(map[string]struct{})
	)

	collect := func(value gjson.Result) {
		key := jsontree.Key(value)
		if _, dup := seen[key]; dup {
			return
		}

		seen[key] = struct{}{}
		values = append(values, value)
	}

	var visit func(n gjson.Result)

	visit = func(n gjson.Result) {
		switch {
		case n.IsObject():
			if value, ok := jsontree.Lookup(n, "Literal", "Value"); ok && jsontree.IsScalar(value) {
				collect(value)
			}

			n.ForEach(func(_, member gjson.Result) bool {
				if !jsontree.IsScalar(member) {
					visit(member)
				}

				return true
			})
		case n.IsArray():
			n.ForEach(func(_, item gjson.Result) bool {
				visit(item)

				return true
			})
		case jsontree.IsScalar(n):
			collect(n)
		}
	}

	visit(node)

	return values
}

// IsNullSentinel reports whether s spells null, ignoring surrounding quotes,
// case, and separators.
func IsNullSentinel(s string) bool {
	cleaned := strings.Trim(strings.Trim(strings.TrimSpace(s), "'"), `"`)

	return jsontree.SameLabel(cleaned, "null")
}

// IsValidFilterValue reports whether v is worth rendering in a predicate.
// Absent values, null sentinels, and single-letter placeholder tokens are not.
func IsValidFilterValue(v gjson.Result) bool {
	if !jsontree.Present(v) {
		return false
	}

	s := strings.TrimSpace(jsontree.Text(v))
	if IsNullSentinel(s) {
		return false
	}

	return !isSingleLetter(unquote(s))
}

// ValidValues filters values through [IsValidFilterValue] and returns their
// text.
func ValidValues(values []gjson.Result) []string {
	out := make([]string, 0, len(values))

	for _, v := range values {
		if IsValidFilterValue(v) {
			out = append(out, jsontree.Text(v))
		}
	}

	return out
}

// RenderLiteral strips one layer of matching surrounding quotes, doubles
// every remaining single quote, and wraps the result in single quotes. It is
// the only path by which values reach predicate text.
func RenderLiteral(s string) string {
	return "'" + strings.ReplaceAll(unquote(s), "'", "''") + "'"
}

// RenderList renders values as a bracketed, comma-joined list of literals.
func RenderList(values []string) string {
	rendered := make([]string, len(values))

	for i, v := range values {
		rendered[i] = RenderLiteral(v)
	}

	return "[" + strings.Join(rendered, ",") + "]"
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '\'' || first == '"') {
			return s[1 : len(s)-1]
		}
	}

	return s
}

func isSingleLetter(s string) bool {
	return len(s) == 1 && (s[0] >= 'a' && s[0] <= 'z' || s[0] >= 'A' && s[0] <= 'Z')
}
