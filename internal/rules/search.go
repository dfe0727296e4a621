package rules

import (
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// indexedAlternative is one searchable selector and the rule it came from.
type indexedAlternative struct {
	Text string
	Rule int
}

// alternativeSource adapts a flattened alternative list to fuzzy.Source.
type alternativeSource []indexedAlternative

func (s alternativeSource) String(i int) string { return s[i].Text }
func (s alternativeSource) Len() int            { return len(s) }

// Match pairs a rule with the alternative that matched the query.
type Match struct {
	Rule           Rule   `json:"rule"`
	Alternative    string `json:"alternative"`
	Score          int    `json:"score"`
	MatchedIndexes []int  `json:"matched_indexes,omitempty"`
}

// Search ranks rules by fuzzy match of query against their alternatives.
// Each rule appears once, with its best scoring alternative. limit <= 0
// returns every match.
func Search(rules []Rule, query string, limit int) []Match {
	var src alternativeSource
	for i, r := range rules {
		for _, alt := range r.Alternatives {
			src = append(src, indexedAlternative{Text: alt, Rule: i})
		}
	}

	// Scoring function: reward length similarity and exact substrings
	scoreMatch := func(text string, fuzzyScore int) int {
		score := fuzzyScore
		lenDiff := len(text) - len(query)
		if lenDiff < 0 {
			lenDiff = -lenDiff
		}
		score -= lenDiff
		if strings.Contains(text, query) {
			score += 100
		}
		return score
	}

	best := make(map[int]Match) // rule index -> best match
	for _, m := range fuzzy.FindFrom(query, src) {
		alt := src[m.Index]
		score := scoreMatch(alt.Text, m.Score)
		if prev, ok := best[alt.Rule]; ok && prev.Score >= score {
			continue
		}
		best[alt.Rule] = Match{
			Rule:           rules[alt.Rule],
			Alternative:    alt.Text,
			Score:          score,
			MatchedIndexes: m.MatchedIndexes,
		}
	}

	matches := make([]Match, 0, len(best))
	for _, m := range best {
		matches = append(matches, m)
	}
	slices.SortFunc(matches, func(a, b Match) int {
		if a.Score != b.Score {
			return b.Score - a.Score // descending
		}
		if a.Rule.File != b.Rule.File {
			return strings.Compare(a.Rule.File, b.Rule.File)
		}
		return a.Rule.Offset - b.Rule.Offset
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
