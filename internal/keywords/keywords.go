// Package keywords ranks the important terms of a text. Two strategies are
// provided behind the Extractor interface: single-token frequency ranking and
// phrase ranking by word degree/frequency ratio.
package keywords

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hyperifyio/tinyteacher/internal/lexicon"
)

// DefaultK is the number of terms returned when k <= 0.
const DefaultK = 8

// MinTokenRunes is the shortest token that counts towards frequencies.
const MinTokenRunes = 3

// Strategy names accepted by New.
const (
	StrategyFrequency = "frequency"
	StrategyPhrase    = "phrase"
)

// Keyword is a ranked term with its importance score.
type Keyword struct {
	Term  string
	Score float64
}

// Extractor ranks the terms of a text. Implementations are deterministic and
// return at most k distinct terms in descending score order.
type Extractor interface {
	Extract(text string, k int) []Keyword
}

// New returns the extractor for the named strategy. An empty name selects
// frequency ranking.
func New(strategy string, lex *lexicon.Lexicon) (Extractor, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "", StrategyFrequency:
		return Frequency{Lexicon: lex}, nil
	case StrategyPhrase:
		return Phrase{Lexicon: lex}, nil
	default:
		return nil, fmt.Errorf("unknown keyword strategy %q", strategy)
	}
}

// Terms drops the scores.
func Terms(kws []Keyword) []string {
	out := make([]string, len(kws))
	for i, k := range kws {
		out[i] = k.Term
	}
	return out
}

// Qualifies reports whether a folded token takes part in frequency and
// keyword computation: at least MinTokenRunes long, not purely numeric and
// not a stop word.
func Qualifies(token string, lex *lexicon.Lexicon) bool {
	if utf8.RuneCountInString(token) < MinTokenRunes {
		return false
	}
	if isNumeric(token) {
		return false
	}
	return !lex.IsStop(token)
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func lexOrDefault(lex *lexicon.Lexicon) *lexicon.Lexicon {
	if lex == nil {
		return lexicon.Default()
	}
	return lex
}
