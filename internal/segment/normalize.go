// Package segment turns raw text into the units the lesson pipeline works on:
// normalized text, ordered sentences, and folded word tokens.
package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// combiningDiacritics is the Unicode "Combining Diacritical Marks" block.
var combiningDiacritics = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x036f, Stride: 1}},
}

// Normalize collapses every whitespace run to a single space and trims the
// result. Casing and accents are preserved.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Fold lowercases text, applies NFKD and strips combining diacritical marks so
// that "Zażółć" and "zazołc" compare equal. Letters without a decomposition
// (such as "ł") are kept as they are. Fold is only used for matching; text
// surfaced to users keeps its original form.
func Fold(text string) string {
	if text == "" {
		return ""
	}
	if isASCII(text) {
		return strings.ToLower(text)
	}
	// transform.Chain is stateful, so a fresh chain is built per call.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(combiningDiacritics)))
	out, _, err := transform.String(t, strings.ToLower(text))
	if err != nil {
		return strings.ToLower(text)
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// folded is a folded copy of a string that remembers, for each folded byte,
// which byte range of the original produced it. It lets callers match on the
// folded form and edit the original.
type folded struct {
	text  string
	start []int
	end   []int
}

func foldWithOffsets(s string) folded {
	var b strings.Builder
	b.Grow(len(s))
	start := make([]int, 0, len(s))
	end := make([]int, 0, len(s))
	lastPiece := -1
	for i, r := range s {
		w := utf8.RuneLen(r)
		if w < 0 {
			w = 1
		}
		piece := Fold(string(r))
		if piece == "" {
			// A standalone combining mark belongs to the preceding letter.
			if lastPiece >= 0 {
				for j := lastPiece; j < len(end); j++ {
					end[j] = i + w
				}
			}
			continue
		}
		lastPiece = len(start)
		b.WriteString(piece)
		for j := 0; j < len(piece); j++ {
			start = append(start, i)
			end = append(end, i+w)
		}
	}
	return folded{text: b.String(), start: start, end: end}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
