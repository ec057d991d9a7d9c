package legaldoc

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultKeywordLimit caps the keyword list per section.
const DefaultKeywordLimit = 20

// stopWords are never emitted as keywords. The set matches the one the
// downstream index was populated with; changing it invalidates ranking
// comparisons across snapshots.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "of": {}, "to": {}, "in": {},
	"for": {}, "a": {}, "an": {}, "is": {}, "be": {}, "by": {},
	"on": {}, "with": {}, "as": {}, "at": {}, "from": {}, "this": {},
	"that": {}, "shall": {}, "such": {}, "any": {}, "all": {},
	"under": {}, "section": {}, "subsection": {},
}

var wordRe = regexp.MustCompile(`[a-zA-Z]+`)

// Keywords extracts up to limit keywords from text: maximal ASCII-letter
// runs, lower-cased, minus stop words and tokens of length <= 3, ranked
// by descending frequency. Ties keep first-encountered order (stable
// sort), so the result is deterministic for a given input.
//
// Callers decide whether to pass the full section text or a truncated
// excerpt; this function never re-slices its input.
func Keywords(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultKeywordLimit
	}

	counts := make(map[string]int)
	var order []string
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if len(w) <= 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	return order
}
