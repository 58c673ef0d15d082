// Package summarize selects the most representative sentences of a text.
//
// Sentences are scored by mean token frequency, keyword hits, position and a
// length penalty, then chosen greedily while skipping candidates that are too
// similar to an already chosen sentence. The result keeps document order.
package summarize

import (
	"sort"
	"strings"

	"github.com/hyperifyio/tinyteacher/internal/keywords"
	"github.com/hyperifyio/tinyteacher/internal/lexicon"
	"github.com/hyperifyio/tinyteacher/internal/segment"
)

// DefaultMaxSentences is used when Summarize is called with limit <= 0.
const DefaultMaxSentences = 5

// Weights are the tunable coefficients of the sentence score.
type Weights struct {
	Frequency float64 `yaml:"frequency" json:"frequency"`
	Keywords  float64 `yaml:"keywords" json:"keywords"`
	Position  float64 `yaml:"position" json:"position"`
	Length    float64 `yaml:"length" json:"length"`
	// SoftCap is the token count beyond which sentences are penalized.
	SoftCap int `yaml:"softCap" json:"softCap"`
	// Redundancy is the Jaccard similarity at which a candidate is skipped.
	Redundancy float64 `yaml:"redundancy" json:"redundancy"`
	// KeywordPool is how many keywords feed the keyword hit count.
	KeywordPool int `yaml:"keywordPool" json:"keywordPool"`
}

// DefaultWeights returns the standard scoring coefficients.
func DefaultWeights() Weights {
	return Weights{
		Frequency:   0.6,
		Keywords:    0.25,
		Position:    0.15,
		Length:      0.1,
		SoftCap:     28,
		Redundancy:  0.6,
		KeywordPool: 12,
	}
}

func (w Weights) withDefaults() Weights {
	d := DefaultWeights()
	if w == (Weights{}) {
		return d
	}
	if w.SoftCap <= 0 {
		w.SoftCap = d.SoftCap
	}
	if w.Redundancy <= 0 {
		w.Redundancy = d.Redundancy
	}
	if w.KeywordPool <= 0 {
		w.KeywordPool = d.KeywordPool
	}
	return w
}

// Summarizer is an extractive summarizer. The zero value uses the default
// lexicon, frequency keywords and DefaultWeights.
type Summarizer struct {
	Lexicon  *lexicon.Lexicon
	Keywords keywords.Extractor
	Weights  Weights
}

type scored struct {
	index int
	text  string
	score float64
}

// Summarize returns up to limit sentences of text joined by single spaces, in
// their original order. Texts with at most limit sentences are returned whole.
func (s Summarizer) Summarize(text string, limit int) string {
	if limit <= 0 {
		limit = DefaultMaxSentences
	}
	sentences := segment.Split(text)
	if len(sentences) <= limit {
		return strings.Join(sentences, " ")
	}

	lex := s.Lexicon
	if lex == nil {
		lex = lexicon.Default()
	}
	w := s.Weights.withDefaults()
	ex := s.Keywords
	if ex == nil {
		ex = keywords.Frequency{Lexicon: lex}
	}

	freq := keywords.Frequencies(segment.Tokenize(text), lex).Counts
	terms := keywords.Terms(ex.Extract(text, w.KeywordPool))

	n := len(sentences)
	cands := make([]scored, n)
	tokenSets := make([]map[string]struct{}, n)
	for i, sent := range sentences {
		tokens := segment.Tokenize(sent)
		tokenSets[i] = segment.TokenSet(sent)

		sum := 0
		for _, t := range tokens {
			sum += freq[t]
		}
		mean := float64(sum) / float64(max1(len(tokens)))

		folded := segment.Fold(sent)
		hits := 0
		for _, term := range terms {
			if strings.Contains(folded, term) {
				hits++
			}
		}

		position := 1 - float64(i)/float64(n)
		penalty := float64(max0(len(tokens)-w.SoftCap)) / float64(w.SoftCap)

		cands[i] = scored{
			index: i,
			text:  sent,
			score: w.Frequency*mean + w.Keywords*float64(hits) + w.Position*position - w.Length*penalty,
		}
	}

	sort.SliceStable(cands, func(a, b int) bool { return cands[a].score > cands[b].score })

	var chosen []scored
	for _, c := range cands {
		if len(chosen) >= limit {
			break
		}
		redundant := false
		for _, p := range chosen {
			if segment.JaccardSets(tokenSets[c.index], tokenSets[p.index]) >= w.Redundancy {
				redundant = true
				break
			}
		}
		if !redundant {
			chosen = append(chosen, c)
		}
	}

	sort.Slice(chosen, func(a, b int) bool { return chosen[a].index < chosen[b].index })
	out := make([]string, len(chosen))
	for i, c := range chosen {
		out[i] = c.text
	}
	return strings.Join(out, " ")
}

// Summarize runs the default Summarizer.
func Summarize(text string, limit int) string {
	return Summarizer{}.Summarize(text, limit)
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
