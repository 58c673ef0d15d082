package keywords

import (
	"sort"

	"github.com/hyperifyio/tinyteacher/internal/lexicon"
	"github.com/hyperifyio/tinyteacher/internal/segment"
)

// Table is a token frequency table that remembers first-seen order.
type Table struct {
	Counts map[string]int
	Order  []string
}

// Frequencies counts the qualifying tokens.
func Frequencies(tokens []string, lex *lexicon.Lexicon) Table {
	lex = lexOrDefault(lex)
	t := Table{Counts: make(map[string]int)}
	for _, tok := range tokens {
		if !Qualifies(tok, lex) {
			continue
		}
		if _, seen := t.Counts[tok]; !seen {
			t.Order = append(t.Order, tok)
		}
		t.Counts[tok]++
	}
	return t
}

// Ranked returns the tokens by descending count, ties in first-seen order.
func (t Table) Ranked() []string {
	out := append([]string(nil), t.Order...)
	sort.SliceStable(out, func(i, j int) bool { return t.Counts[out[i]] > t.Counts[out[j]] })
	return out
}

// Frequency ranks single tokens by how often they occur.
type Frequency struct {
	Lexicon *lexicon.Lexicon
}

// Extract implements Extractor.
func (f Frequency) Extract(text string, k int) []Keyword {
	if k <= 0 {
		k = DefaultK
	}
	table := Frequencies(segment.Tokenize(text), f.Lexicon)
	ranked := table.Ranked()
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	out := make([]Keyword, 0, len(ranked))
	for _, term := range ranked {
		out = append(out, Keyword{Term: term, Score: float64(table.Counts[term])})
	}
	return out
}
