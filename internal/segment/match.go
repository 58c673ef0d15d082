package segment

import (
	"strings"
	"unicode/utf8"
)

// ContainsFold reports whether term occurs in s as a substring, ignoring case
// and diacritics.
func ContainsFold(s, term string) bool {
	ft := Fold(strings.TrimSpace(term))
	if ft == "" {
		return false
	}
	return strings.Contains(Fold(s), ft)
}

// FindWholeWord locates the first occurrence of term in s that is not part of
// a longer word, ignoring case and diacritics. The returned offsets index s.
func FindWholeWord(s, term string) (start, end int, ok bool) {
	spans := wholeWordSpans(s, term, 1)
	if len(spans) == 0 {
		return 0, 0, false
	}
	return spans[0][0], spans[0][1], true
}

// ContainsWholeWord reports whether term occurs in s as a whole word.
func ContainsWholeWord(s, term string) bool {
	_, _, ok := FindWholeWord(s, term)
	return ok
}

// ReplaceWholeWord replaces up to n whole-word occurrences of term in s with
// repl. A negative n replaces all occurrences.
func ReplaceWholeWord(s, term, repl string, n int) string {
	spans := wholeWordSpans(s, term, n)
	if len(spans) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	prev := 0
	for _, sp := range spans {
		b.WriteString(s[prev:sp[0]])
		b.WriteString(repl)
		prev = sp[1]
	}
	b.WriteString(s[prev:])
	return b.String()
}

func wholeWordSpans(s, term string, limit int) [][2]int {
	ft := Fold(strings.TrimSpace(term))
	if ft == "" || s == "" || limit == 0 {
		return nil
	}
	f := foldWithOffsets(s)
	first, _ := utf8.DecodeRuneInString(ft)
	last, _ := utf8.DecodeLastRuneInString(ft)
	var spans [][2]int
	from := 0
	for from <= len(f.text)-len(ft) {
		i := strings.Index(f.text[from:], ft)
		if i < 0 {
			break
		}
		i += from
		j := i + len(ft)
		if boundaryBefore(f.text, i, first) && boundaryAfter(f.text, j, last) {
			start, end := f.start[i], f.end[j-1]
			if len(spans) == 0 || start >= spans[len(spans)-1][1] {
				spans = append(spans, [2]int{start, end})
			}
			if limit > 0 && len(spans) >= limit {
				break
			}
			from = j
			continue
		}
		_, w := utf8.DecodeRuneInString(f.text[i:])
		from = i + w
	}
	return spans
}

func boundaryBefore(text string, i int, edge rune) bool {
	if i == 0 || !isWordRune(edge) {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, j int, edge rune) bool {
	if j >= len(text) || !isWordRune(edge) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[j:])
	return !isWordRune(r)
}

// FindContext picks the sentence that best supports term: the first sentence
// containing it (ignoring case and diacritics), otherwise the sentence with the
// highest token Jaccard similarity to it. ok is false when neither rule finds
// a sentence.
func FindContext(sentences []string, term string) (string, bool) {
	if strings.TrimSpace(term) == "" {
		return "", false
	}
	for _, s := range sentences {
		if ContainsFold(s, term) {
			return s, true
		}
	}
	termSet := TokenSet(term)
	best, score := "", 0.0
	for _, s := range sentences {
		if sc := JaccardSets(TokenSet(s), termSet); sc > score {
			best, score = s, sc
		}
	}
	return best, best != ""
}
