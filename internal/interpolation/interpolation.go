package interpolation

import (
	"regexp"
	"slices"
	"sort"
)

// varMatch stores a detected interpolation variable position.
type varMatch struct {
	start, end int
	value      string
}

// patterns to detect interpolation variables in game strings.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\{[a-zA-Z_][a-zA-Z0-9_]*\}`),         // ${value}
	regexp.MustCompile(`\{[0-9]+\}`),                           // {0}, {1}
	regexp.MustCompile(`%[-+0-9]*\.?[0-9]*[dsfieEgGxXoubcpq]`), // %d, %s, %f, %2d, etc.
	regexp.MustCompile(`%%`),                                   // escaped percent literal
}

// Extract returns the interpolation variables in text in order of appearance.
// Overlapping matches keep the earliest, longest one.
func Extract(text string) []string {
	var all []varMatch
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			all = append(all, varMatch{start: loc[0], end: loc[1], value: text[loc[0]:loc[1]]})
		}
	}
	if len(all) == 0 {
		return nil
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].start != all[j].start {
			return all[i].start < all[j].start
		}
		return all[i].end-all[i].start > all[j].end-all[j].start
	})

	var vars []string
	lastEnd := -1
	for _, m := range all {
		if m.start >= lastEnd {
			vars = append(vars, m.value)
			lastEnd = m.end
		}
	}
	return vars
}

// Mismatch reports whether edited carries a different multiset of variables
// than original. Order may change; translations often reorder arguments.
func Mismatch(original, edited string) bool {
	a, b := Extract(original), Extract(edited)
	if len(a) != len(b) {
		return true
	}
	slices.Sort(a)
	slices.Sort(b)
	return !slices.Equal(a, b)
}
