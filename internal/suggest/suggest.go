// Package suggest produces "did you mean" hints for mistyped names.
package suggest

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// maxSuggestions caps how many candidates are returned.
const maxSuggestions = 3

// CommonAttributeAliases maps names people reach for to the attribute they
// probably meant.
var CommonAttributeAliases = map[string]string{
	"opened":        "open",
	"visible":       "open",
	"show":          "open",
	"minimized":     "minimize",
	"minimise":      "minimize",
	"collapsible":   "minimize",
	"noresize":      "no-resize",
	"fixed":         "no-resize",
	"fullscreen":    "snap-to-top",
	"snap":          "snap-to-top",
	"min-height":    "min-content-height",
	"header-height": "min-content-height",
}

type candidate struct {
	value string
	dist  int
}

// Flag returns up to three valid flags close to unknown, nearest first.
// Leading dashes are ignored for matching but preserved in the results.
func Flag(unknown string, validFlags []string) []string {
	return closest(normalize(unknown), validFlags, normalize)
}

// Attribute returns up to three known attribute names close to unknown.
// Aliases win over edit distance.
func Attribute(unknown string, known []string) []string {
	key := strings.ToLower(strings.TrimSpace(unknown))
	if alias, ok := CommonAttributeAliases[key]; ok {
		for _, k := range known {
			if k == alias {
				return []string{alias}
			}
		}
	}
	if out := closest(key, known, strings.ToLower); len(out) > 0 {
		return out
	}
	return Fuzzy(key, known)
}

// Fuzzy ranks candidates by subsequence match, for inputs that are
// abbreviations rather than typos (e.g. "snp" for "snap-to-top").
func Fuzzy(pattern string, candidates []string) []string {
	if pattern == "" {
		return nil
	}
	matches := fuzzy.Find(pattern, candidates)
	out := make([]string, 0, min(len(matches), maxSuggestions))
	for _, m := range matches {
		out = append(out, m.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func closest(key string, valid []string, norm func(string) string) []string {
	var cands []candidate
	for _, v := range valid {
		n := norm(v)
		maxDist := max(3, len(n)/2)
		if d := levenshtein(key, n); d <= maxDist {
			cands = append(cands, candidate{value: v, dist: d})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist < cands[j].dist
		}
		return len(cands[i].value) < len(cands[j].value)
	})
	out := make([]string, 0, maxSuggestions)
	for _, c := range cands {
		out = append(out, c.value)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func normalize(flag string) string {
	return strings.ToLower(strings.TrimLeft(flag, "-"))
}

// levenshtein returns the edit distance between a and b.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
