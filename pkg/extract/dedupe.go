// Package extract holds the schema-tolerant extraction rules for report
// definition documents: column resolution, literal normalization, filter
// condition interpretation, action classification, and the bookmark-specific
// summaries. Every rule is a pure function over a parsed document and reports
// "not found" through empty results.
package extract

// Dedupe returns seq without repeated elements, keeping the first occurrence
// of each in its original position.
func Dedupe[T comparable](seq []T) []T {
	if len(seq) == 0 {
		return nil
	}

	seen := make(map[T]struct{}, len(seq))
	out := make([]T, 0, len(seq))

	for _, item := range seq {
		if _, dup := seen[item]; dup {
			continue
		}

		seen[item] = struct{}{}
		out = append(out, item)
	}

	return out
}
