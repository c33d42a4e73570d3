// Package jsontree provides schema-agnostic access to parsed JSON documents:
// case-insensitive key lookup, depth-first enumeration of containers and
// leaves, and the comparison-only text canonicalization used for domain labels.
//
// Documents are represented as [gjson.Result] values, which keep object members
// in document order. Absence is always reported through a boolean or an empty
// result, never through an error or a panic.
package jsontree

import (
	"bytes"
	"errors"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON indicates the document bytes are not well-formed JSON.
var ErrInvalidJSON = errors.New("invalid JSON document")

// byteOrderMark is the UTF-8 BOM Power BI Desktop writes at the head of some
// definition files.
var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Parse validates data and returns the root node of the document.
// A leading UTF-8 byte-order mark is ignored.
func Parse(data []byte) (gjson.Result, error) {
	data = bytes.TrimPrefix(data, byteOrderMark)

	if !gjson.ValidBytes(data) {
		return gjson.Result{}, ErrInvalidJSON
	}

	return gjson.ParseBytes(data), nil
}

// MustParse is like [Parse] but panics on invalid input. Intended for tests
// and embedded fixtures.
func MustParse(doc string) gjson.Result {
	node, err := Parse([]byte(doc))
	if err != nil {
		panic(err)
	}

	return node
}
