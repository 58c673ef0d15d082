package segment

import (
	"regexp"
	"strings"
)

// sentenceRe matches a run of non-terminators followed by at most one
// terminator.
var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]?`)

// Sentence is one trimmed sentence of the normalized text together with its
// position in document order.
type Sentence struct {
	Index int
	Text  string
}

// Sentences splits text into ordered sentences after whitespace
// normalization. Empty input yields no sentences. Non-empty input always
// yields at least one sentence: when nothing matches (for example text made
// only of terminators) the whole normalized text is returned.
func Sentences(text string) []Sentence {
	norm := Normalize(text)
	if norm == "" {
		return nil
	}
	var out []Sentence
	for _, m := range sentenceRe.FindAllString(norm, -1) {
		s := strings.TrimSpace(m)
		if s == "" {
			continue
		}
		out = append(out, Sentence{Index: len(out), Text: s})
	}
	if len(out) == 0 {
		out = append(out, Sentence{Index: 0, Text: norm})
	}
	return out
}

// Split is Sentences without the indexes.
func Split(text string) []string {
	sents := Sentences(text)
	out := make([]string, len(sents))
	for i, s := range sents {
		out[i] = s.Text
	}
	return out
}
