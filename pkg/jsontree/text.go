package jsontree

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var separatorRun = regexp.MustCompile(`[\s_-]+`)

// Canonical folds case and removes whitespace, underscore, and hyphen runs so
// that "Page Navigation", "page_navigation", and "PAGE-NAVIGATION" compare
// equal. It is used for comparisons only, never for emitted text.
func Canonical(s string) string {
	return separatorRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "")
}

// SameLabel reports whether a and b are equal after canonicalization.
func SameLabel(a, b string) bool {
	return Canonical(a) == Canonical(b)
}

// Text returns the textual form of a node: the string value for strings, the
// raw token for numbers and booleans, the raw JSON for containers, and "" for
// null or absent nodes.
func Text(node gjson.Result) string {
	switch node.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return node.Str
	default:
		return node.Raw
	}
}

// IsScalar reports whether node is a present string, number, or boolean.
func IsScalar(node gjson.Result) bool {
	switch node.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return true
	default:
		return false
	}
}

// Truthy reports whether node holds a non-empty value: absent, null, false,
// zero, the empty string, and empty containers are all falsy.
func Truthy(node gjson.Result) bool {
	switch node.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return node.Num != 0
	case gjson.String:
		return node.Str != ""
	case gjson.JSON:
		nonEmpty := false

		node.ForEach(func(_, _ gjson.Result) bool {
			nonEmpty = true

			return false
		})

		return nonEmpty
	default:
		return false
	}
}

// Key returns a representation of a scalar suitable for deduplication. The
// JSON type is part of the key, so the string "5" and the number 5 differ.
func Key(node gjson.Result) string {
	return strconv.Itoa(int(node.Type)) + ":" + Text(node)
}
