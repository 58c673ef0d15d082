package summarize

import (
	"strings"
	"testing"

	"github.com/hyperifyio/tinyteacher/internal/segment"
)

const lessonText = "Leaves look green in spring. Chlorophyll absorbs light. " +
	"Photosynthesis uses chlorophyll to make food. Roots drink water from soil. " +
	"Photosynthesis slows in autumn. Photosynthesis stops in winter."

func TestSummarize_IncludesKeywordDenseSentence(t *testing.T) {
	got := Summarize(lessonText, 3)
	if !strings.Contains(got, "Photosynthesis uses chlorophyll to make food.") {
		t.Fatalf("summary misses the keyword-dense sentence: %q", got)
	}
	if n := len(segment.Split(got)); n != 3 {
		t.Fatalf("expected 3 sentences, got %d: %q", n, got)
	}
}

func TestSummarize_SubsetInDocumentOrder(t *testing.T) {
	all := segment.Split(lessonText)
	got := segment.Split(Summarize(lessonText, 4))
	if len(got) > 4 {
		t.Fatalf("bound exceeded: %d sentences", len(got))
	}
	pos := -1
	for _, s := range got {
		idx := -1
		for i := pos + 1; i < len(all); i++ {
			if all[i] == s {
				idx = i
				break
			}
		}
		if idx < 0 {
			t.Fatalf("sentence %q not found in order in source", s)
		}
		pos = idx
	}
}

func TestSummarize_ShortTextReturnedWhole(t *testing.T) {
	text := "One  short   sentence. Another one!"
	if got := Summarize(text, 5); got != "One short sentence. Another one!" {
		t.Fatalf("got %q", got)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if got := Summarize("", 5); got != "" {
		t.Fatalf("expected empty summary, got %q", got)
	}
	if got := Summarize("   ", 5); got != "" {
		t.Fatalf("expected empty summary for blank text, got %q", got)
	}
}

func TestSummarize_SuppressesNearDuplicates(t *testing.T) {
	a := "The cat sat on the warm mat today."
	b := "The cat sat on the warm mat again."
	c := "Dogs bark loudly at night."
	got := Summarize(a+" "+b+" "+c, 2)
	if strings.Contains(got, a) && strings.Contains(got, b) {
		t.Fatalf("both near-duplicates selected: %q", got)
	}
	if !strings.Contains(got, c) {
		t.Fatalf("distinct sentence missing: %q", got)
	}
}

func TestSummarize_CustomWeightsKeepDefaultsForUnset(t *testing.T) {
	s := Summarizer{Weights: Weights{Position: 1}}
	w := s.Weights.withDefaults()
	if w.SoftCap != 28 || w.Redundancy != 0.6 || w.KeywordPool != 12 {
		t.Fatalf("unexpected defaults: %+v", w)
	}
	if w.Frequency != 0 || w.Position != 1 {
		t.Fatalf("explicit coefficients overwritten: %+v", w)
	}
	// Position-only scoring picks the leading sentences.
	got := s.Summarize(lessonText, 2)
	if got != "Leaves look green in spring. Chlorophyll absorbs light." {
		t.Fatalf("got %q", got)
	}
}
