package jsontree

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Present reports whether node exists and is not JSON null.
func Present(node gjson.Result) bool {
	return node.Exists() && node.Type != gjson.Null
}

// Lookup walks node along keys. At each step the current node must be an
// object; the key is matched exactly first, then case-insensitively in member
// order. The boolean is false when any step is missing or the final value is
// JSON null.
func Lookup(node gjson.Result, keys ...string) (gjson.Result, bool) {
	current := node

	for _, key := range keys {
		next, found := member(current, key)
		if !found {
			return gjson.Result{}, false
		}

		current = next
	}

	if !Present(current) {
		return gjson.Result{}, false
	}

	return current, true
}

// LookupAny resolves the first of several alternative keys on an object.
// Exact matches across all candidates are tried before any case-insensitive
// match. A candidate that resolves to JSON null still ends the search, and is
// reported as absent.
func LookupAny(node gjson.Result, candidates ...string) (gjson.Result, bool) {
	value, found := memberAny(node, candidates)
	if !found || !Present(value) {
		return gjson.Result{}, false
	}

	return value, true
}

// HasAny reports whether node is an object carrying any of the candidate keys,
// regardless of the member's value.
func HasAny(node gjson.Result, candidates ...string) bool {
	_, found := memberAny(node, candidates)

	return found
}

// Object returns the member under key when it is an object.
func Object(node gjson.Result, key string) (gjson.Result, bool) {
	value, ok := LookupAny(node, key)
	if !ok || !value.IsObject() {
		return gjson.Result{}, false
	}

	return value, true
}

// Items returns the elements of a sequence, or the node itself as a single
// element when it is an object. Other values yield nothing.
func Items(node gjson.Result) []gjson.Result {
	switch {
	case node.IsArray():
		return node.Array()
	case node.IsObject():
		return []gjson.Result{node}
	default:
		return nil
	}
}

func member(node gjson.Result, key string) (gjson.Result, bool) {
	return memberAny(node, []string{key})
}

func memberAny(node gjson.Result, candidates []string) (gjson.Result, bool) {
	if !node.IsObject() {
		return gjson.Result{}, false
	}

	for _, candidate := range candidates {
		value, found := scan(node, func(key string) bool { return key == candidate })
		if found {
			return value, true
		}
	}

	for _, candidate := range candidates {
		value, found := scan(node, func(key string) bool { return strings.EqualFold(key, candidate) })
		if found {
			return value, true
		}
	}

	return gjson.Result{}, false
}

func scan(node gjson.Result, match func(key string) bool) (gjson.Result, bool) {
	var (
		value gjson.Result
		found bool
	)

	node.ForEach(func(key, member gjson.Result) bool {
		if match(key.Str) {
			value, found = member, true

			return false
		}

		return true
	})

	return value, found
}
