package jsontree

import (
	"iter"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Path is the ordered key/index trail leading to a leaf. Sequence indices are
// rendered as bracketed ordinals, e.g. "[0]".
type Path []string

// String joins the path segments with dots.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Last returns the final segment, or "" for the root.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}

	return p[len(p)-1]
}

// Contains reports whether any segment equals name case-insensitively.
func (p Path) Contains(name string) bool {
	for _, segment := range p {
		if strings.EqualFold(segment, name) {
			return true
		}
	}

	return false
}

// Containers yields every object in the tree in depth-first pre-order.
// Sequences are descended into but never yielded themselves.
func Containers(node gjson.Result) iter.Seq[gjson.Result] {
	return func(yield func(gjson.Result) bool) {
		walkContainers(node, yield)
	}
}

func walkContainers(node gjson.Result, yield func(gjson.Result) bool) bool {
	switch {
	case node.IsObject():
		if !yield(node) {
			return false
		}

		return eachChild(node, func(child gjson.Result) bool {
			return walkContainers(child, yield)
		})
	case node.IsArray():
		return eachChild(node, func(child gjson.Result) bool {
			return walkContainers(child, yield)
		})
	default:
		return true
	}
}

// Leaves yields every scalar in the tree with the path leading to it, in
// depth-first order. Empty objects and sequences produce no leaves.
func Leaves(node gjson.Result) iter.Seq2[Path, gjson.Result] {
	return func(yield func(Path, gjson.Result) bool) {
		walkLeaves(node, nil, yield)
	}
}

func walkLeaves(node gjson.Result, path Path, yield func(Path, gjson.Result) bool) bool {
	switch {
	case node.IsObject():
		keepGoing := true

		node.ForEach(func(key, value gjson.Result) bool {
			keepGoing = walkLeaves(value, extend(path, key.Str), yield)

			return keepGoing
		})

		return keepGoing
	case node.IsArray():
		keepGoing := true
		index := 0

		node.ForEach(func(_, value gjson.Result) bool {
			keepGoing = walkLeaves(value, extend(path, "["+strconv.Itoa(index)+"]"), yield)
			index++

			return keepGoing
		})

		return keepGoing
	default:
		if !node.Exists() {
			return true
		}

		return yield(path, node)
	}
}

// FirstLeaf returns the first leaf whose last path segment matches one of keys
// case-insensitively.
func FirstLeaf(node gjson.Result, keys ...string) (gjson.Result, bool) {
	for path, leaf := range Leaves(node) {
		last := path.Last()

		for _, key := range keys {
			if strings.EqualFold(last, key) {
				return leaf, true
			}
		}
	}

	return gjson.Result{}, false
}

func eachChild(node gjson.Result, visit func(gjson.Result) bool) bool {
	keepGoing := true

	node.ForEach(func(_, value gjson.Result) bool {
		keepGoing = visit(value)

		return keepGoing
	})

	return keepGoing
}

// extend copies path so yielded paths stay valid after the walk moves on.
func extend(path Path, segment string) Path {
	next := make(Path, len(path), len(path)+1)
	copy(next, path)

	return append(next, segment)
}
