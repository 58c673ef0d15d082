package simplify

import (
	"strings"
	"testing"
)

func TestSimplify_AsidesDashesAndSubstitutions(t *testing.T) {
	in := "We utilize (mostly) numerous tools — prior to launch. Należy zastosować prostą konfigurację poprzez panel."
	got := Simplifier{}.Simplify(in, 16, 6)
	want := "We use many tools - before launch. Należy użyć prostą konfigurację przez panel."
	if got != want {
		t.Fatalf("got  %q\nwant %q", got, want)
	}
}

func TestSimplify_SubstitutionKeepsWholeWords(t *testing.T) {
	got := Simplifier{}.Simplify("The komponenty differ from one komponent.", 16, 6)
	if got != "The komponenty differ from one część." {
		t.Fatalf("got %q", got)
	}
}

func TestSimplify_TruncatesLongSentences(t *testing.T) {
	in := "one two three four five six seven eight nine ten."
	got := Simplifier{}.Simplify(in, 4, 6)
	if got != "one two three four"+Ellipsis {
		t.Fatalf("got %q", got)
	}
}

func TestSimplify_LengthCapHolds(t *testing.T) {
	in := strings.Repeat("This is a fairly long sentence that keeps going well past any sensible limit for young learners who read slowly. ", 8)
	for _, lvl := range []Level{A2, B2} {
		p := lvl.Profile()
		out := Simplify(in, lvl)
		n := 0
		for _, s := range strings.SplitAfter(out, Ellipsis) {
			s = strings.TrimSpace(strings.TrimSuffix(s, Ellipsis))
			if s == "" {
				continue
			}
			n++
			if w := len(strings.Fields(s)); w > p.WordsPerSentence {
				t.Fatalf("%s: sentence has %d words: %q", lvl, w, s)
			}
		}
		if n > p.MaxSentences {
			t.Fatalf("%s: %d sentences, want at most %d", lvl, n, p.MaxSentences)
		}
	}
}

func TestSimplify_LevelsDiffer(t *testing.T) {
	in := "A. B. C. D. E. F. G."
	if got := Simplify(in, A2); got != "A. B. C. D." {
		t.Fatalf("A2 got %q", got)
	}
	if got := Simplify(in, B2); got != "A. B. C. D. E. F." {
		t.Fatalf("B2 got %q", got)
	}
}

func TestSimplify_DropsSentencesEmptiedByAsides(t *testing.T) {
	if got := Simplify("(aside only). Real text.", B2); got != "Real text." {
		t.Fatalf("got %q", got)
	}
	if got := Simplify("", A2); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel("a2"); err != nil || l != A2 {
		t.Fatalf("a2: %v %v", l, err)
	}
	if l, err := ParseLevel(""); err != nil || l != B2 {
		t.Fatalf("empty: %v %v", l, err)
	}
	if _, err := ParseLevel("C1"); err == nil {
		t.Fatalf("expected error")
	}
}
