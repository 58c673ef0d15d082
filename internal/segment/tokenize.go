package segment

import "regexp"

var tokenRe = regexp.MustCompile(`[\p{L}\p{Nd}]+`)

// Tokenize returns the folded word and number tokens of text in order.
// Empty input yields an empty result.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	return tokenRe.FindAllString(Fold(text), -1)
}

// TokenSet returns the distinct tokens of text.
func TokenSet(text string) map[string]struct{} {
	toks := Tokenize(text)
	set := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		set[t] = struct{}{}
	}
	return set
}

// Jaccard returns |A∩B| / |A∪B| over the token sets of a and b. Two empty
// sets give 0.
func Jaccard(a, b string) float64 {
	return JaccardSets(TokenSet(a), TokenSet(b))
}

// JaccardSets is Jaccard over precomputed token sets.
func JaccardSets(a, b map[string]struct{}) float64 {
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		union = 1
	}
	return float64(inter) / float64(union)
}
