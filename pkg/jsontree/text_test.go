package jsontree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/jsontree"
)

func TestCanonical(t *testing.T) {
	t.Parallel()

	variants := []string{"Page Navigation", "page_navigation", "PAGE-NAVIGATION", "  pagenavigation ", "Page -_ Navigation"}

	for _, v := range variants {
		assert.Equal(t, "pagenavigation", jsontree.Canonical(v), v)
		assert.True(t, jsontree.SameLabel(v, "PageNavigation"), v)
	}

	assert.False(t, jsontree.SameLabel("Bookmark", "Bookmarks"))
}

func TestText(t *testing.T) {
	t.Parallel()

	doc := jsontree.MustParse(`{"s": "x", "n": 1.50, "b": false, "z": null, "o": {"k": 1}}`)

	tests := map[string]string{
		"s":       "x",
		"n":       "1.50",
		"b":       "false",
		"z":       "",
		"o":       `{"k": 1}`,
		"missing": "",
	}

	for key, want := range tests {
		assert.Equal(t, want, jsontree.Text(doc.Get(key)), key)
	}
}

func TestTruthy(t *testing.T) {
	t.Parallel()

	doc := jsontree.MustParse(`{"s": "x", "es": "", "n": 2, "zero": 0, "t": true, "f": false,
		"null": null, "obj": {"a": 1}, "eobj": {}, "arr": [0], "earr": []}`)

	truthy := []string{"s", "n", "t", "obj", "arr"}
	falsy := []string{"es", "zero", "f", "null", "eobj", "earr", "missing"}

	for _, key := range truthy {
		assert.True(t, jsontree.Truthy(doc.Get(key)), key)
	}

	for _, key := range falsy {
		assert.False(t, jsontree.Truthy(doc.Get(key)), key)
	}
}

func TestKey_KeepsType(t *testing.T) {
	t.Parallel()

	doc := jsontree.MustParse(`["5", 5, "5"]`)
	items := doc.Array()

	assert.NotEqual(t, jsontree.Key(items[0]), jsontree.Key(items[1]))
	assert.Equal(t, jsontree.Key(items[0]), jsontree.Key(items[2]))
}

func TestIsScalar(t *testing.T) {
	t.Parallel()

	doc := jsontree.MustParse(`{"s": "x", "o": {}, "z": null}`)

	assert.True(t, jsontree.IsScalar(doc.Get("s")))
	assert.False(t, jsontree.IsScalar(doc.Get("o")))
	assert.False(t, jsontree.IsScalar(doc.Get("z")))
	assert.False(t, jsontree.IsScalar(gjson.Result{}))
}

func TestParse(t *testing.T) {
	t.Parallel()

	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"name": "page1"}`)...)

	doc, err := jsontree.Parse(withBOM)
	require.NoError(t, err)
	assert.Equal(t, "page1", doc.Get("name").String())

	_, err = jsontree.Parse([]byte(`{"name": `))
	require.ErrorIs(t, err, jsontree.ErrInvalidJSON)

	assert.Panics(t, func() { jsontree.MustParse(`nope`) })
}
