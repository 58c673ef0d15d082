package keywords

import (
	"sort"
	"strings"

	"github.com/hyperifyio/tinyteacher/internal/lexicon"
	"github.com/hyperifyio/tinyteacher/internal/segment"
)

// Phrase ranks runs of qualifying tokens. Stop words and short or numeric
// tokens act as phrase boundaries. Each word scores (degree+freq)/freq, where
// degree sums len(phrase)-1 over the phrases containing it, and a phrase
// scores the sum of its words.
type Phrase struct {
	Lexicon *lexicon.Lexicon
}

// Extract implements Extractor.
func (p Phrase) Extract(text string, k int) []Keyword {
	if k <= 0 {
		k = DefaultK
	}
	lex := lexOrDefault(p.Lexicon)

	var phrases [][]string
	for _, sent := range segment.Split(text) {
		var cur []string
		for _, tok := range segment.Tokenize(sent) {
			if !Qualifies(tok, lex) {
				if len(cur) > 0 {
					phrases = append(phrases, cur)
					cur = nil
				}
				continue
			}
			cur = append(cur, tok)
		}
		if len(cur) > 0 {
			phrases = append(phrases, cur)
		}
	}
	if len(phrases) == 0 {
		return nil
	}

	freq := map[string]int{}
	degree := map[string]int{}
	for _, ph := range phrases {
		for _, w := range ph {
			freq[w]++
			degree[w] += len(ph) - 1
		}
	}
	wordScore := func(w string) float64 {
		return float64(degree[w]+freq[w]) / float64(freq[w])
	}

	seen := map[string]struct{}{}
	out := make([]Keyword, 0, len(phrases))
	for _, ph := range phrases {
		term := strings.Join(ph, " ")
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		score := 0.0
		for _, w := range ph {
			score += wordScore(w)
		}
		out = append(out, Keyword{Term: term, Score: score})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > k {
		out = out[:k]
	}
	return out
}
