// Package flashcard pairs keywords with the sentence that best explains them.
package flashcard

import (
	"strings"

	"github.com/hyperifyio/tinyteacher/internal/segment"
)

// DefaultMax is used when Build is called with limit <= 0.
const DefaultMax = 6

// Card is a term and its supporting sentence.
type Card struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// Build returns at most limit cards, one per distinct term, in the order of
// terms. A term's definition is the first sentence containing it, else the
// most similar sentence, else the first sentence of text. Text without
// sentences yields no cards.
func Build(text string, terms []string, limit int) []Card {
	if limit <= 0 {
		limit = DefaultMax
	}
	sents := segment.Split(text)
	if len(sents) == 0 {
		return []Card{}
	}
	out := make([]Card, 0, limit)
	seen := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		if len(out) >= limit {
			break
		}
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		ctx, ok := segment.FindContext(sents, term)
		if !ok {
			ctx = sents[0]
		}
		def := segment.Normalize(ctx)
		if def == "" {
			continue
		}
		out = append(out, Card{Term: term, Definition: def})
		seen[term] = struct{}{}
	}
	return out
}
