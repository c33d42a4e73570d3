package extract_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"

	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/extract"
	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/jsontree"
)

func texts(values []gjson.Result) []string {
	out := make([]string, len(values))

	for i, v := range values {
		out[i] = jsontree.Text(v)
	}

	return out
}

func TestLiterals(t *testing.T) {
	t.Parallel()

	values := jsontree.MustParse(`[
		[{"Literal": {"Value": "'East'"}}],
		[{"Literal": {"Value": "'West'"}}],
		[{"Literal": {"Value": "'East'"}}],
		"bare", 5, "5", null
	]`)

	got := extract.Literals(values)

	assert.Equal(t, []string{"'East'", "'West'", "bare", "5", "5"}, texts(got))
	assert.Equal(t, gjson.Number, got[3].Type)
	assert.Equal(t, gjson.String, got[4].Type)
}

func TestLiterals_SkipsMemberScalars(t *testing.T) {
	t.Parallel()

	between := jsontree.MustParse(`{
		"Expression": {"Column": {"Expression": {"SourceRef": {"Entity": "Sales"}}, "Property": "Date"}},
		"LowerBound": {"Literal": {"Value": "1L"}},
		"UpperBound": {"Literal": {"Value": "5L"}}
	}`)

	assert.Equal(t, []string{"1L", "5L"}, texts(extract.Literals(between)))
	assert.Equal(t, []string{"x"}, texts(extract.Literals(jsontree.MustParse(`"x"`))))
}

func TestIsValidFilterValue(t *testing.T) {
	t.Parallel()

	doc := jsontree.MustParse(`{"values": ["null", "'NULL'", "\"Null\"", " n_ull ", "A", "'b'", "ab", "'East'", "1", 5, null]}`)
	items := doc.Get("values").Array()

	want := []bool{false, false, false, false, false, false, true, true, true, true, false}

	for i, item := range items {
		assert.Equal(t, want[i], extract.IsValidFilterValue(item), item.Raw)
	}

	assert.False(t, extract.IsValidFilterValue(gjson.Result{}))
}

func TestValidValues(t *testing.T) {
	t.Parallel()

	values := jsontree.MustParse(`["'East'", "null", "X", "'West'"]`).Array()

	assert.Equal(t, []string{"'East'", "'West'"}, extract.ValidValues(values))
}

func TestRenderLiteral(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"East":        "'East'",
		"'East'":      "'East'",
		`"quoted"`:    "'quoted'",
		"O'Brien":     "'O''Brien'",
		"'O'Brien'":   "'O''Brien'",
		"'":           "''''",
		"":            "''",
		"'mismatch\"": `'''mismatch"'`,
	}

	for in, want := range tests {
		assert.Equal(t, want, extract.RenderLiteral(in), in)
	}
}

func TestRenderLiteral_QuoteCount(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"plain", "a'b", "a'b'c", "it's 'fine' here", "x''y"} {
		n := strings.Count(in, "'")
		rendered := extract.RenderLiteral(in)

		assert.Equal(t, 2*n+2, strings.Count(rendered, "'"), in)
	}
}

func TestRenderLiteral_IdempotentOnUnquotedValues(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"East", "2020-01-01", "Sales Data", "5L"} {
		once := extract.RenderLiteral(in)
		assert.Equal(t, once, extract.RenderLiteral(once), in)
	}
}

func TestRenderList(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "['a','b''c']", extract.RenderList([]string{"'a'", "b'c"}))
	assert.Equal(t, "[]", extract.RenderList(nil))
}

func TestIsNullSentinel(t *testing.T) {
	t.Parallel()

	assert.True(t, extract.IsNullSentinel("NULL"))
	assert.True(t, extract.IsNullSentinel("'null'"))
	assert.False(t, extract.IsNullSentinel("nullable"))
}
