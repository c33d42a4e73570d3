package extract //nolint:testpackage // testing internal implementation.

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"

	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/jsontree"
)

func TestSummarizeEach_IsolatesPanics(t *testing.T) {
	t.Parallel()

	conditions := jsontree.MustParse(`[{ "name" : "ok" }, { "name" : "boom", "nested": [1, 2] }]`).Array()

	summarize := func(condition gjson.Result) string {
		name := condition.Get("name").String()
		if name == "boom" {
			panic("malformed condition")
		}

		return name
	}

	assert.Equal(t, []string{"ok", `{"name":"boom","nested":[1,2]}`}, summarizeEach(conditions, summarize))
}

func TestHasNegationSegment(t *testing.T) {
	t.Parallel()

	assert.True(t, hasNegationSegment(jsontree.MustParse(`{"Condition": {"Not": {"Expression": {"x": 1}}}}`)))
	assert.True(t, hasNegationSegment(jsontree.MustParse(`{"Condition": {"NotIn": {"Values": ["a"]}}}`)))
	assert.False(t, hasNegationSegment(jsontree.MustParse(`{"Notes": "n", "Annotations": {"a": 1}}`)))
}

func TestRawText_Compacts(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `{"a":1}`, rawText(jsontree.MustParse(`{ "a" : 1 }`)))
}
