// Package simplify rewrites a summary into shorter, plainer sentences.
package simplify

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/hyperifyio/tinyteacher/internal/lexicon"
	"github.com/hyperifyio/tinyteacher/internal/segment"
)

// Ellipsis marks a truncated sentence.
const Ellipsis = "…"

// Defaults used when Simplify receives non-positive limits.
const (
	DefaultWordsPerSentence = 16
	DefaultMaxSentences     = 6
)

// Level is a reading level.
type Level string

const (
	// A2 is the stricter level: fewer, shorter sentences.
	A2 Level = "A2"
	// B2 is the looser level.
	B2 Level = "B2"
)

// Profile is the sentence budget of a reading level.
type Profile struct {
	WordsPerSentence int
	MaxSentences     int
}

var profiles = map[Level]Profile{
	A2: {WordsPerSentence: 12, MaxSentences: 4},
	B2: {WordsPerSentence: DefaultWordsPerSentence, MaxSentences: DefaultMaxSentences},
}

// Profile returns the budget for l. Unknown levels get the B2 budget.
func (l Level) Profile() Profile {
	if p, ok := profiles[l]; ok {
		return p
	}
	return profiles[B2]
}

// ParseLevel accepts "A2" or "B2" in any case. Empty input selects B2.
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case A2:
		return A2, nil
	case B2, "":
		return B2, nil
	}
	return "", fmt.Errorf("unknown reading level %q (want A2 or B2)", s)
}

var (
	parenRe      = regexp.MustCompile(`\([^)]*\)`)
	dashRe       = regexp.MustCompile(`[–—]`)
	spacePunctRe = regexp.MustCompile(`\s+([.,!?;:])`)
)

// Simplifier applies the lexicon's substitution table. The zero value uses the
// default lexicon.
type Simplifier struct {
	Lexicon *lexicon.Lexicon
}

// Simplify keeps the first maxSentences sentences of text, drops parenthetical
// asides, normalizes dashes, replaces formal words with plain ones and cuts
// each sentence to targetWords words, appending Ellipsis when cut.
func (s Simplifier) Simplify(text string, targetWords, maxSentences int) string {
	if targetWords <= 0 {
		targetWords = DefaultWordsPerSentence
	}
	if maxSentences <= 0 {
		maxSentences = DefaultMaxSentences
	}
	lex := s.Lexicon
	if lex == nil {
		lex = lexicon.Default()
	}
	subs := lex.Substitutions()

	sents := segment.Split(text)
	if len(sents) > maxSentences {
		sents = sents[:maxSentences]
	}
	out := make([]string, 0, len(sents))
	for _, sent := range sents {
		t := parenRe.ReplaceAllString(sent, " ")
		t = dashRe.ReplaceAllString(t, "-")
		for _, sub := range subs {
			t = segment.ReplaceWholeWord(t, sub.From, sub.To, -1)
		}
		words := strings.Fields(t)
		if !hasWord(t) {
			continue
		}
		if len(words) > targetWords {
			t = strings.Join(words[:targetWords], " ") + Ellipsis
		} else {
			t = strings.Join(words, " ")
		}
		out = append(out, spacePunctRe.ReplaceAllString(t, "$1"))
	}
	return strings.Join(out, " ")
}

// SimplifyLevel simplifies text with the budget of level.
func (s Simplifier) SimplifyLevel(text string, level Level) string {
	p := level.Profile()
	return s.Simplify(text, p.WordsPerSentence, p.MaxSentences)
}

// Simplify runs the default Simplifier.
func Simplify(text string, level Level) string {
	return Simplifier{}.SimplifyLevel(text, level)
}

func hasWord(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) >= 0
}
